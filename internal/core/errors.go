package core

import (
	"errors"
	"fmt"

	"github.com/illarion/pwvault/internal/storage"
)

var (
	ErrIO          = errors.New("vault file unreadable or unwritable")
	ErrFormat      = errors.New("vault file is not a valid vault")
	ErrValidation  = errors.New("invalid request")
	ErrNotFound    = errors.New("no credential at that index")
	// ErrDecrypt never names the failing record: a wrong passphrase and a
	// corrupted record produce the same error
	ErrDecrypt     = errors.New("decryption failed: wrong passphrase or corrupted data")
	ErrVaultExists = errors.New("vault already exists")
)

// storageError maps a storage failure onto ErrFormat or ErrIO
func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrFormat, err)
	case errors.Is(err, storage.ErrUnknownFormat):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(index, count int) error {
	return fmt.Errorf("%w: index %d, vault holds %d", ErrNotFound, index, count)
}
