package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/pwvault/internal/core"
	"github.com/illarion/pwvault/internal/crypto"
)

// New creates an empty vault
func New(env *Env, name string) {
	path := env.vaultPath(name)

	// Check before prompting for the new password
	if err := checkVaultAbsent(path); err != nil {
		HandleError(err)
	}

	password, err := GetNewPassword(env, env.Config.Password, "Enter new vault password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if err := core.Create(path, password, env.options()); err != nil {
		HandleError(err)
	}

	fmt.Printf("created vault %s\n", titleStyle.Render(path))
	fmt.Println(dimStyle.Render("The password is not stored anywhere - you must remember it."))
}

// checkVaultAbsent returns core.ErrVaultExists if something is already at path
func checkVaultAbsent(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return core.ErrVaultExists
	}
	return nil
}
