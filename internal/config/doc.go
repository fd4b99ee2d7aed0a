// Package config loads pwvault settings.
//
// Sources, lowest precedence first: built-in defaults, the config file
// ($PWVAULT_CONFIG or $XDG_CONFIG_HOME/pwvault/config.yaml), a .env file in
// the working directory, and PWVAULT_* environment variables.
package config
