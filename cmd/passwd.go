package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/pwvault/internal/crypto"
	"github.com/illarion/pwvault/internal/keyring"
)

// Passwd changes the vault password and re-encrypts every credential
func Passwd(env *Env, name string) {
	v := env.openVault(name)
	defer v.Close()

	// Get current password with retry on stale keyring
	currentPassword, _, err := GetPasswordWithRetry(env, "Enter current password: ", v)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(currentPassword)

	// Get new password
	newPassword, err := GetNewPassword(env, env.Config.NewPassword, "Enter new password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(newPassword)

	// Change password
	if err := v.ChangePassword(currentPassword, newPassword); err != nil {
		HandleError(err)
	}

	// Keep an existing keyring entry in step with the vault
	if env.Config.Keyring && keyring.HasPassword(v.ID()) {
		if err := keyring.SavePassword(v.ID(), newPassword); err == nil {
			fmt.Println("Keyring updated with new password")
		} else {
			fmt.Fprintf(os.Stderr, "warning: %s\n", err)
		}
	}

	// Compact database after rewriting all data
	if err := v.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Println("password changed successfully")
}
