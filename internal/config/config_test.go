package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"PWVAULT_CONFIG",
	"PWVAULT_DIR",
	"PWVAULT_FORMAT",
	"PWVAULT_KDF",
	"PWVAULT_ITERATIONS",
	"PWVAULT_PASSWORD",
	"PWVAULT_NEW_PASSWORD",
	"PWVAULT_LOG_LEVEL",
	"PWVAULT_CLIPBOARD_TIMEOUT",
	"PWVAULT_KEYRING",
}

// cleanEnv unsets every PWVAULT_* variable for the test and restores it afterwards
func cleanEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range configEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "pbkdf2", cfg.KDF)
	assert.Equal(t, uint32(0), cfg.Iterations)
	assert.Empty(t, cfg.Password)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.ClipboardTimeout)
	assert.True(t, cfg.Keyring)
	assert.Empty(t, cfg.File)
}

func TestLoadFromEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("PWVAULT_DIR", "/tmp/vaults")
	t.Setenv("PWVAULT_FORMAT", "bolt")
	t.Setenv("PWVAULT_KDF", "argon2id")
	t.Setenv("PWVAULT_ITERATIONS", "5")
	t.Setenv("PWVAULT_PASSWORD", "hunter2")
	t.Setenv("PWVAULT_NEW_PASSWORD", "correct horse")
	t.Setenv("PWVAULT_LOG_LEVEL", "debug")
	t.Setenv("PWVAULT_CLIPBOARD_TIMEOUT", "5s")
	t.Setenv("PWVAULT_KEYRING", "false")

	cfg, err := load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/vaults", cfg.Dir)
	assert.Equal(t, "bolt", cfg.Format)
	assert.Equal(t, "argon2id", cfg.KDF)
	assert.Equal(t, uint32(5), cfg.Iterations)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, "correct horse", cfg.NewPassword)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ClipboardTimeout)
	assert.False(t, cfg.Keyring)
}

func TestLoadConfigFile(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: bolt\nclipboard_timeout: 1m\nkeyring: false\n"), 0600))
	t.Setenv("PWVAULT_CONFIG", path)

	// Environment wins over the file
	t.Setenv("PWVAULT_FORMAT", "json")

	cfg, err := load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, time.Minute, cfg.ClipboardTimeout)
	assert.False(t, cfg.Keyring)
}

func TestLoadUserConfigFile(t *testing.T) {
	cleanEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "pwvault"), 0700))
	path := filepath.Join(xdg, "pwvault", "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0600))

	cfg, err := load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingExplicitConfig(t *testing.T) {
	cleanEnv(t)
	t.Setenv("PWVAULT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := load(filepath.Join(t.TempDir(), ".env"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	cleanEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PWVAULT_DIR=/from/dotenv\nPWVAULT_LOG_LEVEL=error\n"), 0600))

	// Already set variables are not overridden
	t.Setenv("PWVAULT_LOG_LEVEL", "debug")

	cfg, err := load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv", cfg.Dir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Dir: ".", Format: "json", KDF: "pbkdf2", LogLevel: "warn", ClipboardTimeout: time.Second}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown format", func(c *Config) { c.Format = "xml" }},
		{"unknown kdf", func(c *Config) { c.KDF = "md5" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"negative timeout", func(c *Config) { c.ClipboardTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestVaultPath(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Dir: dir}

	path, err := cfg.VaultPath("personal")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "personal.pwv"), path)

	path, err = cfg.VaultPath("other/work.pwv")
	require.NoError(t, err)
	assert.Equal(t, "other/work.pwv", path)

	path, err = cfg.VaultPath("legacy.vault")
	require.NoError(t, err)
	assert.Equal(t, "legacy.vault", path)

	_, err = cfg.VaultPath("")
	assert.Error(t, err)
}
