package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/pwvault/internal/core"
	"github.com/illarion/pwvault/internal/crypto"
)

// Add stores a new credential. With ask the secret is read from the
// terminal instead of the command line.
func Add(env *Env, name string, args []string, ask bool) {
	if len(args) == 0 || len(args) > 3 {
		usageError("pwvault add [-ask] <vault> <name> [username] [secret]")
	}

	cred := crypto.Credential{Name: args[0]}
	if len(args) > 1 {
		cred.Username = args[1]
	}
	if len(args) > 2 {
		if ask {
			fmt.Fprintln(os.Stderr, "Error: give the secret as an argument or use -ask, not both")
			os.Exit(1)
		}
		cred.Secret = args[2]
	}

	v := env.openVault(name)
	defer v.Close()

	password, source, err := GetPasswordWithRetry(env, "Enter password: ", v)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if ask {
		secret, err := core.ReadPasswordConfirm("Secret for " + cred.Name + ": ")
		if err != nil {
			HandleError(err)
		}
		cred.Secret = string(secret)
		crypto.ClearBytes(secret)
	}

	index, err := v.Add(password, cred)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("added %s at index %d\n", titleStyle.Render(cred.Name), index)

	if source == SourcePrompt {
		OfferToSavePassword(env, v.ID(), password)
	}
}
