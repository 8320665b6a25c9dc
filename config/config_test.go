package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickyhof/MyDB/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mydb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3306", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
data_dir: /var/lib/mydb
storage: git
encryption:
  enabled: true
  key: 000102030405060708090a0b0c0d0e0f
  iv: 0f0e0d0c0b0a09080706050403020100
log:
  level: debug
server:
  addr: 127.0.0.1:4000
identity:
  name: Alice
  email: alice@example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/var/lib/mydb", cfg.DataDir)
	assert.Equal(t, StorageGit, cfg.Storage)
	assert.True(t, cfg.Encryption.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:4000", cfg.Server.Addr)
	assert.Equal(t, core.Identity{Name: "Alice", Email: "alice@example.com"}, cfg.CoreIdentity())
}

func TestLoadEnvOverridesKey(t *testing.T) {
	t.Setenv(EnvKey, "ffffffffffffffffffffffffffffffff")
	t.Setenv(EnvIV, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")

	cfg, err := Load(writeConfig(t, "encryption:\n  enabled: true\n  key: 00\n"))
	require.NoError(t, err)
	assert.Equal(t, "ffffffffffffffffffffffffffffffff", cfg.Encryption.Key)
	assert.Equal(t, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", cfg.Encryption.IV)
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "storage: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage = "tape" }},
		{"s3 without bucket", func(c *Config) { c.Storage = StorageS3 }},
		{"file without data dir", func(c *Config) { c.DataDir = "" }},
		{"short key", func(c *Config) {
			c.Encryption = EncryptionConfig{Enabled: true, Key: "0001", IV: "000102030405060708090a0b0c0d0e0f"}
		}},
		{"bad hex iv", func(c *Config) {
			c.Encryption = EncryptionConfig{Enabled: true, Key: "000102030405060708090a0b0c0d0e0f", IV: "zz"}
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"tls cert without key", func(c *Config) { c.Server.TLSCert = "cert.pem" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOpenPersistence(t *testing.T) {
	for _, storage := range []string{StorageMemory, StorageFile, StorageGit} {
		t.Run(storage, func(t *testing.T) {
			cfg := Default()
			cfg.Storage = storage
			cfg.DataDir = t.TempDir()
			cfg.Encryption = EncryptionConfig{
				Enabled: true,
				Key:     "000102030405060708090a0b0c0d0e0f",
				IV:      "0f0e0d0c0b0a09080706050403020100",
			}

			persistence, err := OpenPersistence(t.Context(), cfg)
			require.NoError(t, err)
			assert.True(t, persistence.Encrypted())

			database := core.NewDatabase("shop")
			_, _, err = persistence.Commit(database, cfg.CoreIdentity())
			require.NoError(t, err)

			loaded, _, err := persistence.Load("shop")
			require.NoError(t, err)
			assert.Equal(t, "shop", loaded.Name)
		})
	}

	cfg := Default()
	cfg.Storage = "tape"
	_, err := OpenPersistence(t.Context(), cfg)
	assert.Error(t, err)
}
