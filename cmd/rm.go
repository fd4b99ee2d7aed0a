package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/pwvault/internal/crypto"
)

// Remove deletes a credential; later credentials move down by one
func Remove(env *Env, name string, index int) {
	v := env.openVault(name)
	defer v.Close()

	password, _, err := GetPasswordWithRetry(env, "Enter password: ", v)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if err := v.Delete(password, index); err != nil {
		HandleError(err)
	}

	// Compact database to reclaim space
	if err := v.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Printf("removed credential %d\n", index)
}
