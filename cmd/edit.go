package cmd

import (
	"fmt"

	"github.com/illarion/pwvault/internal/core"
	"github.com/illarion/pwvault/internal/crypto"
)

// Edit replaces some fields of a credential; nil fields keep their value
func Edit(env *Env, name string, index int, upd core.Update) {
	v := env.openVault(name)
	defer v.Close()

	password, source, err := GetPasswordWithRetry(env, "Enter password: ", v)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	changes, err := v.Edit(password, index, upd)
	if err != nil {
		HandleError(err)
	}

	if len(changes) == 0 {
		fmt.Printf("credential %d unchanged\n", index)
	} else {
		fmt.Printf("credential %d updated:\n", index)
		for _, ch := range changes {
			fmt.Printf("  %-9s %s\n", ch.Field+":", ch.Diff())
		}
	}

	if source == SourcePrompt {
		OfferToSavePassword(env, v.ID(), password)
	}
}
