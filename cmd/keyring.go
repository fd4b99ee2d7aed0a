package cmd

import (
	"errors"
	"fmt"

	"github.com/illarion/pwvault/internal/core"
	"github.com/illarion/pwvault/internal/crypto"
	"github.com/illarion/pwvault/internal/keyring"
)

// KeyringSave saves the password to the OS keyring
func KeyringSave(env *Env, name string) {
	v := env.openVault(name)
	defer v.Close()

	// Prompt for password
	password, err := GetPassword(env, "Enter password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	// Verify password is correct
	if !v.VerifyPassword(password) {
		HandleError(core.ErrDecrypt)
	}

	if err := keyring.SavePassword(v.ID(), password); err != nil {
		HandleError(err)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the password from the OS keyring
func KeyringDelete(env *Env, name string) {
	v := env.openVault(name)
	defer v.Close()

	if err := keyring.DeletePassword(v.ID()); err != nil {
		if errors.Is(err, keyring.ErrNotStored) {
			fmt.Println("No password stored in keyring")
			return
		}
		HandleError(err)
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus(env *Env, name string) {
	v := env.openVault(name)
	defer v.Close()

	if keyring.HasPassword(v.ID()) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
