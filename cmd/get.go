package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/illarion/pwvault/internal/crypto"
	"go.uber.org/zap"
)

// Get prints a credential, or copies its secret to the clipboard
func Get(ctx context.Context, env *Env, name string, index int, copySecret bool) {
	v := env.openVault(name)
	defer v.Close()

	password, source, err := GetPasswordWithRetry(env, "Enter password: ", v)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	cred, err := v.Get(password, index)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("%s %s\n", titleStyle.Render("name:    "), cred.Name)
	fmt.Printf("%s %s\n", titleStyle.Render("username:"), cred.Username)
	if !copySecret {
		fmt.Printf("%s %s\n", titleStyle.Render("secret:  "), cred.Secret)
	}

	if source == SourcePrompt {
		OfferToSavePassword(env, v.ID(), password)
	}

	if copySecret {
		copyToClipboard(ctx, env, cred.Secret)
	}
}

// copyToClipboard writes secret to the clipboard and waits for the configured
// timeout before clearing it. The clipboard is left alone if it changed meanwhile.
func copyToClipboard(ctx context.Context, env *Env, secret string) {
	if err := clipboard.WriteAll(secret); err != nil {
		HandleError(fmt.Errorf("failed to copy to clipboard: %w", err))
	}

	timeout := env.Config.ClipboardTimeout
	if timeout == 0 {
		fmt.Println(okStyle.Render("secret copied to clipboard"))
		return
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("secret copied to clipboard, clearing in %s", timeout)))

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	if current, err := clipboard.ReadAll(); err == nil && current != secret {
		env.Logger.Debug("clipboard changed, not clearing")
		return
	}
	if err := clipboard.WriteAll(""); err != nil {
		env.Logger.Warn("failed to clear clipboard", zap.Error(err))
		return
	}
	fmt.Println(dimStyle.Render("clipboard cleared"))
}
