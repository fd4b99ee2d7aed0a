package cmd

import (
	"fmt"
	"os"
)

// Compact rewrites the vault file to reclaim unused space
func Compact(env *Env, name string) {
	v := env.openVault(name)
	defer v.Close()

	path := v.Info().Path

	// Get file size before
	info, err := os.Stat(path)
	if err != nil {
		HandleError(err)
	}
	sizeBefore := info.Size()

	if err := v.Compact(); err != nil {
		HandleError(err)
	}

	// Get file size after
	info, err = os.Stat(path)
	if err != nil {
		HandleError(err)
	}
	sizeAfter := info.Size()

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
}
