// Package keyring caches vault passphrases in the OS keyring, keyed by vault id.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "pwvault"

// ErrNotStored is returned when no passphrase is stored for a vault
var ErrNotStored = errors.New("no password stored in keyring")

// SavePassword stores a password in the OS keyring
func SavePassword(vaultID string, password []byte) error {
	if err := keyring.Set(serviceName, vaultID, string(password)); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return nil
}

// GetPassword retrieves a password from the OS keyring.
// The caller is responsible for calling crypto.ClearBytes on the result.
func GetPassword(vaultID string) ([]byte, error) {
	password, err := keyring.Get(serviceName, vaultID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotStored
		}
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}
	return []byte(password), nil
}

// DeletePassword removes a password from the OS keyring
func DeletePassword(vaultID string) error {
	if err := keyring.Delete(serviceName, vaultID); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotStored
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(vaultID string) bool {
	_, err := keyring.Get(serviceName, vaultID)
	return err == nil
}
