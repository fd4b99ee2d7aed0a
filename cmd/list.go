package cmd

import (
	"fmt"
	"strconv"

	"github.com/illarion/pwvault/internal/crypto"
)

// List shows the name and username of every credential
func List(env *Env, name string) {
	v := env.openVault(name)
	defer v.Close()

	password, source, err := GetPasswordWithRetry(env, "Enter password: ", v)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	entries, err := v.List(password)
	if err != nil {
		HandleError(err)
	}

	if len(entries) == 0 {
		fmt.Printf("No credentials in %s\n", name)
	} else {
		rows := make([][3]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, [3]string{strconv.Itoa(e.Index), e.Name, e.Username})
		}
		fmt.Print(renderEntries(rows))
	}

	if source == SourcePrompt {
		OfferToSavePassword(env, v.ID(), password)
	}
}
