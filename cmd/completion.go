package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_pwvault() {
    local cur prev words cword
    _init_completion || return

    local commands="new list add edit rm get passwd status compact keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        add)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-ask" -- "$cur"))
            else
                _filedir pwv
            fi
            ;;
        edit)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-n -u -p" -- "$cur"))
            else
                _filedir pwv
            fi
            ;;
        get)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-copy" -- "$cur"))
            else
                _filedir pwv
            fi
            ;;
        list|rm|passwd|status|compact)
            _filedir pwv
            ;;
        keyring)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            else
                _filedir pwv
            fi
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _pwvault pwvault
`

const zshCompletion = `#compdef pwvault

_pwvault() {
    local -a commands
    commands=(
        'new:Create a new vault'
        'list:List credentials in a vault'
        'add:Add a credential'
        'edit:Change fields of a credential'
        'rm:Remove a credential'
        'get:Show or copy a credential'
        'passwd:Change vault password'
        'status:Show vault details'
        'compact:Compact vault to reclaim disk space'
        'keyring:Manage password in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'pwvault commands' commands
            ;;
        args)
            case "${words[2]}" in
                add)
                    _arguments \
                        '-ask[Read the secret from the terminal]' \
                        '1:vault:_files -g "*.pwv"'
                    ;;
                edit)
                    _arguments \
                        '-n[New name]:name:' \
                        '-u[New username]:username:' \
                        '-p[New secret]:secret:' \
                        '1:vault:_files -g "*.pwv"'
                    ;;
                get)
                    _arguments \
                        '-copy[Copy the secret to the clipboard]' \
                        '1:vault:_files -g "*.pwv"'
                    ;;
                list|rm|passwd|status|compact)
                    _arguments '1:vault:_files -g "*.pwv"'
                    ;;
                keyring)
                    _arguments \
                        '1:subcommand:(save delete status)' \
                        '2:vault:_files -g "*.pwv"'
                    ;;
                help)
                    _describe -t commands 'pwvault commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_pwvault "$@"
`

const fishCompletion = `# pwvault fish completions

set -l commands new list add edit rm get passwd status compact keyring help completion

complete -c pwvault -f

# Commands
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a new -d 'Create a new vault'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a list -d 'List credentials'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a add -d 'Add a credential'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a edit -d 'Change a credential'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove a credential'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a get -d 'Show or copy a credential'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change vault password'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault details'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact vault'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c pwvault -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# Vault files
complete -c pwvault -n "__fish_seen_subcommand_from list add edit rm get passwd status compact keyring" -a "(__fish_complete_suffix .pwv)"

# Flags
complete -c pwvault -n "__fish_seen_subcommand_from add" -o ask -d 'Read the secret from the terminal'
complete -c pwvault -n "__fish_seen_subcommand_from edit" -o n -r -d 'New name'
complete -c pwvault -n "__fish_seen_subcommand_from edit" -o u -r -d 'New username'
complete -c pwvault -n "__fish_seen_subcommand_from edit" -o p -r -d 'New secret'
complete -c pwvault -n "__fish_seen_subcommand_from get" -o copy -d 'Copy the secret to the clipboard'

# keyring subcommands
complete -c pwvault -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c pwvault -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c pwvault -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
