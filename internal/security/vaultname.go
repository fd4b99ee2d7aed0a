package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscapes  = errors.New("vault name escapes the vault directory")
	ErrAbsolutePath = errors.New("absolute paths are not allowed as vault names")
	ErrEmptyName    = errors.New("empty vault name not allowed")
	ErrHiddenName   = errors.New("vault names must not start with a dot")
)

// ValidateVaultName checks a bare vault name given on the command line.
// It rejects:
// - Empty names
// - Absolute paths
// - Names containing a path separator or ".." (using filepath.IsLocal)
// - Names starting with a dot
func ValidateVaultName(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	if !filepath.IsLocal(name) {
		if filepath.IsAbs(name) {
			return fmt.Errorf("%w: %s", ErrAbsolutePath, name)
		}
		return fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}

	// A bare name is a single path element
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}

	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %s", ErrHiddenName, name)
	}

	return nil
}

// ResolveVault returns the file for vault name inside dir: <dir>/<name><ext>.
// The result is confined to dir.
func ResolveVault(dir, name, ext string) (string, error) {
	if err := ValidateVaultName(name); err != nil {
		return "", err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	path := filepath.Join(absDir, name+ext)

	relPath, err := filepath.Rel(absDir, path)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	if !filepath.IsLocal(relPath) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}

	return path, nil
}
