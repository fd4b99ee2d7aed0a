package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/illarion/pwvault/internal/config"
	"github.com/illarion/pwvault/internal/core"
	"github.com/illarion/pwvault/internal/crypto"
	"github.com/illarion/pwvault/internal/keyring"
	"github.com/illarion/pwvault/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// maxPromptAttempts bounds password prompts before giving up
const maxPromptAttempts = 3

// Env carries what every command needs
type Env struct {
	Config *config.Config
	Logger *zap.Logger
}

// PasswordSource tells where a password came from
type PasswordSource int

const (
	SourceEnv PasswordSource = iota
	SourceKeyring
	SourcePrompt
)

func (e *Env) options() core.Options {
	return core.Options{
		Format:     e.Config.Format,
		KDF:        e.Config.KDF,
		Iterations: e.Config.Iterations,
		Logger:     e.Logger,
	}
}

// vaultPath resolves a vault argument or exits
func (e *Env) vaultPath(name string) string {
	path, err := e.Config.VaultPath(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return path
}

// openVault opens the named vault or exits
func (e *Env) openVault(name string) *core.Vault {
	v, err := core.Open(e.vaultPath(name), e.options())
	if err != nil {
		HandleError(err)
	}
	return v
}

// envPassword returns the configured non-interactive password, or nil
func (e *Env) envPassword() []byte {
	if e.Config.Password == "" {
		return nil
	}
	return []byte(e.Config.Password)
}

// GetPassword retrieves password from environment or prompts user
// The caller is responsible for calling crypto.ClearBytes on the returned password
func GetPassword(env *Env, prompt string) ([]byte, error) {
	// Try environment variable first
	if password := env.envPassword(); password != nil {
		return password, nil
	}

	// Prompt user
	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// GetNewPassword retrieves a password for a new vault or a rotation.
// Checks environment variable first, then prompts with confirmation.
func GetNewPassword(env *Env, envValue, prompt string) ([]byte, error) {
	if envValue != "" {
		return []byte(envValue), nil
	}
	return core.ReadPasswordConfirm(prompt)
}

// GetPasswordWithRetry tries the environment, then the OS keyring, then the
// terminal. A keyring entry that no longer verifies is skipped. Prompted
// passwords are verified and asked again up to maxPromptAttempts times.
func GetPasswordWithRetry(env *Env, prompt string, v *core.Vault) ([]byte, PasswordSource, error) {
	if password := env.envPassword(); password != nil {
		return password, SourceEnv, nil
	}

	if env.Config.Keyring {
		password, err := keyring.GetPassword(v.ID())
		switch {
		case err == nil && v.VerifyPassword(password):
			env.Logger.Debug("password from keyring", zap.String("vault_id", v.ID()))
			return password, SourceKeyring, nil
		case err == nil:
			crypto.ClearBytes(password)
			fmt.Fprintln(os.Stderr, "Stored keyring password is out of date")
		case !errors.Is(err, keyring.ErrNotStored):
			env.Logger.Debug("keyring unavailable", zap.Error(err))
		}
	}

	for attempt := 1; ; attempt++ {
		password, err := core.ReadPassword(prompt)
		if err != nil {
			return nil, SourcePrompt, err
		}
		if v.VerifyPassword(password) {
			return password, SourcePrompt, nil
		}
		crypto.ClearBytes(password)

		if attempt == maxPromptAttempts {
			return nil, SourcePrompt, core.ErrDecrypt
		}
		fmt.Fprintln(os.Stderr, "Wrong password, try again")
	}
}

// OfferToSavePassword asks whether to keep a prompted password in the OS keyring
func OfferToSavePassword(env *Env, vaultID string, password []byte) {
	if !env.Config.Keyring || vaultID == "" {
		return
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return
	}
	if keyring.HasPassword(vaultID) {
		return
	}

	if !confirm("Save password to OS keyring? [y/N]: ") {
		return
	}

	if err := keyring.SavePassword(vaultID, password); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s\n", err)
		return
	}
	fmt.Println(okStyle.Render("Password saved to keyring"))
}

// confirm reads a yes/no answer from stdin
func confirm(prompt string) bool {
	fmt.Fprint(os.Stderr, prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// ParseIndex parses a credential index argument or exits
func ParseIndex(arg string) int {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		fmt.Fprintf(os.Stderr, "Error: %q is not a valid index\n", arg)
		fmt.Fprintf(os.Stderr, "Indices are shown by 'pwvault list <vault>'\n")
		os.Exit(1)
	}
	return index
}

// describeError turns an error into a message and an optional hint
func describeError(err error) (string, string) {
	switch {
	case errors.Is(err, core.ErrVaultExists):
		return "vault already exists", "Use 'pwvault status <vault>' to inspect it"
	case errors.Is(err, core.ErrDecrypt):
		return "wrong password or corrupted vault", ""
	case errors.Is(err, core.ErrNotFound):
		return err.Error(), "Use 'pwvault list <vault>' to see indices"
	case errors.Is(err, storage.ErrNotFound):
		return "vault not found", "Run 'pwvault new <vault>' first"
	default:
		return err.Error(), ""
	}
}

// HandleError handles common errors consistently
func HandleError(err error) {
	msg, hint := describeError(err)
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Error:"), msg)
	if hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	os.Exit(1)
}

// usageError prints usage for a command and exits
func usageError(usage string) {
	fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
	os.Exit(1)
}
