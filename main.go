package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/pwvault/cmd"
	"github.com/illarion/pwvault/internal/config"
	"github.com/illarion/pwvault/internal/core"
	"github.com/illarion/pwvault/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
		return
	case "completion":
		runCompletion(os.Args[2:])
		return
	}

	env := loadEnv()
	defer env.Logger.Sync()

	switch os.Args[1] {
	case "new":
		runNew(env, os.Args[2:])
	case "list", "ls":
		runList(env, os.Args[2:])
	case "add":
		runAdd(env, os.Args[2:])
	case "edit":
		runEdit(env, os.Args[2:])
	case "rm":
		runRm(env, os.Args[2:])
	case "get":
		runGet(ctx, env, os.Args[2:])
	case "passwd":
		runPasswd(env, os.Args[2:])
	case "status":
		runStatus(env, os.Args[2:])
	case "compact":
		runCompact(env, os.Args[2:])
	case "keyring":
		runKeyring(env, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func loadEnv() *cmd.Env {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if cfg.File != "" {
		logger.Debug("config loaded from " + cfg.File)
	}

	return &cmd.Env{Config: cfg, Logger: logger}
}

// parseArgs parses flags and requires at least want positional arguments
func parseArgs(fs *flag.FlagSet, args []string, want int, usage string) []string {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < want {
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
		os.Exit(1)
	}
	return fs.Args()
}

func runNew(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	rest := parseArgs(fs, args, 1, "pwvault new <vault>")

	cmd.New(env, rest[0])
}

func runList(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	rest := parseArgs(fs, args, 1, "pwvault list <vault>")

	cmd.List(env, rest[0])
}

func runAdd(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	ask := fs.Bool("ask", false, "Read the secret from the terminal")
	rest := parseArgs(fs, args, 2, "pwvault add [-ask] <vault> <name> [username] [secret]")

	cmd.Add(env, rest[0], rest[1:], *ask)
}

func runEdit(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	name := fs.String("n", "", "New name")
	username := fs.String("u", "", "New username")
	secret := fs.String("p", "", "New secret")
	rest := parseArgs(fs, args, 2, "pwvault edit [-n name] [-u username] [-p secret] <vault> <index>")

	// Only flags given on the command line change a field, even when empty
	var upd core.Update
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			upd.Name = name
		case "u":
			upd.Username = username
		case "p":
			upd.Secret = secret
		}
	})

	cmd.Edit(env, rest[0], cmd.ParseIndex(rest[1]), upd)
}

func runRm(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	rest := parseArgs(fs, args, 2, "pwvault rm <vault> <index>")

	cmd.Remove(env, rest[0], cmd.ParseIndex(rest[1]))
}

func runGet(ctx context.Context, env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	copySecret := fs.Bool("copy", false, "Copy the secret to the clipboard instead of printing it")
	rest := parseArgs(fs, args, 2, "pwvault get [-copy] <vault> <index>")

	cmd.Get(ctx, env, rest[0], cmd.ParseIndex(rest[1]), *copySecret)
}

func runPasswd(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	rest := parseArgs(fs, args, 1, "pwvault passwd <vault>")

	cmd.Passwd(env, rest[0])
}

func runStatus(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	rest := parseArgs(fs, args, 1, "pwvault status <vault>")

	cmd.Status(env, rest[0])
}

func runCompact(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	rest := parseArgs(fs, args, 1, "pwvault compact <vault>")

	cmd.Compact(env, rest[0])
}

func runKeyring(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("keyring", flag.ExitOnError)
	rest := parseArgs(fs, args, 2, "pwvault keyring <save|delete|status> <vault>")

	switch rest[0] {
	case "save":
		cmd.KeyringSave(env, rest[1])
	case "delete":
		cmd.KeyringDelete(env, rest[1])
	case "status":
		cmd.KeyringStatus(env, rest[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", rest[0])
		fmt.Fprintln(os.Stderr, "Usage: pwvault keyring <save|delete|status> <vault>")
		os.Exit(1)
	}
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pwvault completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("pwvault - Encrypted password vault for the command line")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pwvault <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  new         Create a new vault")
	fmt.Println("  list, ls    List credentials in a vault")
	fmt.Println("  add         Add a credential")
	fmt.Println("  edit        Change fields of a credential")
	fmt.Println("  rm          Remove a credential")
	fmt.Println("  get         Show a credential or copy its secret")
	fmt.Println("  passwd      Change vault password")
	fmt.Println("  status      Show vault details")
	fmt.Println("  compact     Compact vault to reclaim disk space")
	fmt.Println("  keyring     Manage password in OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("A bare vault name like 'personal' means personal.pwv in $PWVAULT_DIR (default: current directory).")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  pwvault new personal                           # Create personal.pwv")
	fmt.Println("  pwvault add personal github alice s3cr3t       # Store a credential")
	fmt.Println("  pwvault list personal                          # Show indices, names and usernames")
	fmt.Println("  pwvault get -copy personal 0                   # Copy a secret")
	fmt.Println()
	fmt.Println("Use 'pwvault help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "new":
		fmt.Println("pwvault new <vault>")
		fmt.Println()
		fmt.Println("Creates an empty vault file. Never overwrites an existing file.")
		fmt.Println("Prompts for a password that will be used for encryption.")
		fmt.Println("The password is not stored anywhere - you must remember it.")
		fmt.Println()
		fmt.Println("Environment:")
		fmt.Println("  PWVAULT_FORMAT      json (default) or bolt")
		fmt.Println("  PWVAULT_KDF         pbkdf2 (default) or argon2id")
		fmt.Println("  PWVAULT_ITERATIONS  KDF cost, 0 for the algorithm default")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  pwvault new personal             # Create personal.pwv")
		fmt.Println("  pwvault new ~/vaults/work.pwv    # Create at an explicit path")
	case "list", "ls":
		fmt.Println("pwvault list <vault>")
		fmt.Println()
		fmt.Println("Lists the index, name and username of every credential.")
		fmt.Println("Secrets are never shown. Fails if any credential cannot be decrypted.")
	case "add":
		fmt.Println("pwvault add [-ask] <vault> <name> [username] [secret]")
		fmt.Println()
		fmt.Println("Adds a credential at the end of the vault and prints its index.")
		fmt.Println("Username and secret default to empty.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -ask    Read the secret from the terminal (keeps it out of shell history)")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  pwvault add personal github alice s3cr3t")
		fmt.Println("  pwvault add -ask personal github alice")
	case "edit":
		fmt.Println("pwvault edit [-n name] [-u username] [-p secret] <vault> <index>")
		fmt.Println()
		fmt.Println("Changes the given fields of a credential; other fields keep their value.")
		fmt.Println("Prints what changed. Secret values are never printed.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -n    New name (must not be empty)")
		fmt.Println("  -u    New username")
		fmt.Println("  -p    New secret")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  pwvault edit -u alice2 personal 0")
	case "rm":
		fmt.Println("pwvault rm <vault> <index>")
		fmt.Println()
		fmt.Println("Removes a credential. Credentials after it move down by one index.")
	case "get":
		fmt.Println("pwvault get [-copy] <vault> <index>")
		fmt.Println()
		fmt.Println("Shows name, username and secret of a credential.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -copy    Copy the secret to the clipboard instead of printing it.")
		fmt.Println("           The clipboard is cleared after PWVAULT_CLIPBOARD_TIMEOUT (default 30s).")
	case "passwd":
		fmt.Println("pwvault passwd <vault>")
		fmt.Println()
		fmt.Println("Changes the vault password.")
		fmt.Println("Requires both the current and new passwords.")
		fmt.Println("Re-encrypts every credential; on any failure the vault is left unchanged.")
		fmt.Println("Updates the keyring entry if one exists.")
	case "status":
		fmt.Println("pwvault status <vault>")
		fmt.Println()
		fmt.Println("Shows vault id, format, key derivation, credential count,")
		fmt.Println("timestamps, keyring and git status.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "compact":
		fmt.Println("pwvault compact <vault>")
		fmt.Println()
		fmt.Println("Compacts a bolt vault to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'rm' and 'passwd' commands.")
		fmt.Println("JSON vaults are rewritten on every change and need no compaction.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "keyring":
		fmt.Println("pwvault keyring <save|delete|status> <vault>")
		fmt.Println()
		fmt.Println("Manages the vault password in the OS keyring.")
		fmt.Println("A stored password is used instead of prompting.")
		fmt.Println("Set PWVAULT_KEYRING=false to never read or offer the keyring.")
	case "completion":
		fmt.Println("pwvault completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(pwvault completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(pwvault completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  pwvault completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
