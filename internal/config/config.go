package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/illarion/pwvault/internal/core"
	"github.com/illarion/pwvault/internal/crypto"
	"github.com/illarion/pwvault/internal/security"
	"github.com/illarion/pwvault/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "PWVAULT"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of the pwvault CLI
type Config struct {
	Dir              string        `mapstructure:"dir"`
	Format           string        `mapstructure:"format"`
	KDF              string        `mapstructure:"kdf"`
	Iterations       uint32        `mapstructure:"iterations"`
	Password         string        `mapstructure:"password"`
	NewPassword      string        `mapstructure:"new_password"`
	LogLevel         string        `mapstructure:"log_level"`
	ClipboardTimeout time.Duration `mapstructure:"clipboard_timeout"`
	Keyring          bool          `mapstructure:"keyring"`

	// File is the config file that was read, empty if none
	File string `mapstructure:"-"`
}

// Load reads configuration from .env in the working directory,
// the config file and PWVAULT_* environment variables.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	// .env never overrides variables that are already set
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("dir", ".")
	v.SetDefault("format", storage.FormatJSON)
	v.SetDefault("kdf", "pbkdf2")
	v.SetDefault("iterations", 0)
	v.SetDefault("password", "")
	v.SetDefault("new_password", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("clipboard_timeout", 30*time.Second)
	v.SetDefault("keyring", true)

	file, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readConfigFile reads PWVAULT_CONFIG if set, otherwise the per-user
// config file when it exists. It returns the file that was read.
func readConfigFile(v *viper.Viper) (string, error) {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config %s: %w", explicit, err)
		}
		return explicit, nil
	}

	dir, err := userConfigDir()
	if err != nil {
		return "", nil
	}

	path := filepath.Join(dir, "pwvault", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return path, nil
}

func userConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}
	return os.UserConfigDir()
}

// Validate rejects unknown formats, algorithms and log levels
func (c *Config) Validate() error {
	switch c.Format {
	case storage.FormatJSON, storage.FormatBolt:
	default:
		return fmt.Errorf("%w: unknown format %q (json or bolt)", ErrInvalidConfig, c.Format)
	}

	if _, err := crypto.NormalizeAlgorithm(c.KDF); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}

	if c.ClipboardTimeout < 0 {
		return fmt.Errorf("%w: clipboard timeout must not be negative", ErrInvalidConfig)
	}

	if c.Dir == "" {
		c.Dir = "."
	}
	return nil
}

// VaultPath resolves a vault argument. A bare name becomes <dir>/<name>.pwv;
// anything with a path separator or an extension is used as given.
func (c *Config) VaultPath(name string) (string, error) {
	if strings.ContainsAny(name, `/\`) || filepath.Ext(name) != "" {
		return name, nil
	}
	return security.ResolveVault(c.Dir, name, core.VaultExtension)
}
