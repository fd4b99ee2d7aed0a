package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/illarion/pwvault/internal/git"
	"github.com/illarion/pwvault/internal/keyring"
)

// Status shows vault details that need no password
func Status(env *Env, name string) {
	v := env.openVault(name)
	defer v.Close()

	info := v.Info()

	var size int64
	if fi, err := os.Stat(info.Path); err == nil {
		size = fi.Size()
	}

	fmt.Println(titleStyle.Render(info.Path))
	fmt.Printf("  id:          %s\n", info.ID)
	fmt.Printf("  format:      %s (%s)\n", info.Format, formatSize(size))
	fmt.Printf("  kdf:         %s\n", info.KDF)
	fmt.Printf("  credentials: %d\n", info.Records)
	fmt.Printf("  created:     %s\n", info.Created.Local().Format(time.RFC3339))
	fmt.Printf("  modified:    %s\n", info.Modified.Local().Format(time.RFC3339))

	if env.Config.Keyring {
		if keyring.HasPassword(info.ID) {
			fmt.Println("  keyring:     password stored")
		} else {
			fmt.Println("  keyring:     not stored")
		}
	}

	if line := git.FormatVaultStatus(git.CheckVault(info.Path), filepath.Base(info.Path)); line != "" {
		switch {
		case strings.HasPrefix(line, "warning:"):
			line = warnStyle.Render(line)
		case strings.HasPrefix(line, "ok:"):
			line = okStyle.Render(line)
		}
		fmt.Printf("  git:         %s\n", line)
	}
}
