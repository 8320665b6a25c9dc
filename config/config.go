// Package config loads MyDB settings from YAML and turns them into a
// persistence layer.
package config

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/ps"
)

const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageGit    = "git"
	StorageS3     = "s3"
)

// Environment variables that override the encryption key material.
const (
	EnvKey = "MYDB_KEY"
	EnvIV  = "MYDB_IV"
)

type Config struct {
	DataDir    string           `yaml:"data_dir"`
	Storage    string           `yaml:"storage"`
	Encryption EncryptionConfig `yaml:"encryption"`
	S3         S3Config         `yaml:"s3"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Identity   IdentityConfig   `yaml:"identity"`
}

type EncryptionConfig struct {
	Enabled bool   `yaml:"enabled"`
	Key     string `yaml:"key"` // 32 hex digits
	IV      string `yaml:"iv"`  // 32 hex digits
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	SeqURL string `yaml:"seq_url"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
	Audience  string `yaml:"audience"`
	TLSCert   string `yaml:"tls_cert"`
	TLSKey    string `yaml:"tls_key"`
}

type IdentityConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

func Default() *Config {
	return &Config{
		DataDir: "./data",
		Storage: StorageFile,
		Log:     LogConfig{Level: "info"},
		Server:  ServerConfig{Addr: ":3306"},
		Identity: IdentityConfig{
			Name:  "MyDB",
			Email: "mydb@localhost",
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults. Key material from the environment wins over the
// file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if key := os.Getenv(EnvKey); key != "" {
		cfg.Encryption.Key = key
	}
	if iv := os.Getenv(EnvIV); iv != "" {
		cfg.Encryption.IV = iv
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageGit:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for %s storage", c.Storage)
		}
	case StorageMemory:
	case StorageS3:
		if c.S3.Bucket == "" {
			return errors.New("s3.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage %q (want file, memory, git or s3)", c.Storage)
	}

	if c.Encryption.Enabled {
		if err := checkHex128("encryption.key", c.Encryption.Key); err != nil {
			return err
		}
		if err := checkHex128("encryption.iv", c.Encryption.IV); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server.tls_cert and server.tls_key must be set together")
	}

	return nil
}

func checkHex128(field, value string) error {
	b, err := hex.DecodeString(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if len(b) != 16 {
		return fmt.Errorf("%s must be 16 bytes (32 hex digits), got %d bytes", field, len(b))
	}
	return nil
}

func (c *Config) CoreIdentity() core.Identity {
	return core.Identity{Name: c.Identity.Name, Email: c.Identity.Email}
}

// OpenPersistence builds the persistence layer for the configured
// storage backend and cipher.
func OpenPersistence(ctx context.Context, c *Config) (*ps.Persistence, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var transform ps.Transform
	if c.Encryption.Enabled {
		cipher, err := ps.NewAESCBCFromHex(c.Encryption.Key, c.Encryption.IV)
		if err != nil {
			return nil, err
		}
		transform = cipher
	}

	var store ps.Store
	switch c.Storage {
	case StorageMemory:
		store = ps.NewMemoryStore()
	case StorageFile:
		fileStore, err := ps.NewFileStore(c.DataDir)
		if err != nil {
			return nil, err
		}
		store = fileStore
	case StorageGit:
		gitStore, err := ps.NewGitStore(c.DataDir)
		if err != nil {
			return nil, err
		}
		store = gitStore
	case StorageS3:
		s3Store, err := ps.NewS3Store(ctx, ps.S3Config{
			Bucket:    c.S3.Bucket,
			Prefix:    c.S3.Prefix,
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		store = s3Store
	}

	return ps.NewPersistence(store, transform), nil
}
