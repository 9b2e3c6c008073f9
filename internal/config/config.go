// Package config loads gistvault settings.
//
// Sources, later overriding earlier:
//
//  1. Built-in defaults ([Default]).
//  2. <appdir>/config.ini (sections github, storage, session, auth, log, documents).
//  3. A .env file in the working directory (never overrides variables already set).
//  4. GISTVAULT_* environment variables.
//  5. Command-line flags, applied by the cmd package.
//
// The GitHub token is deliberately not validated here: a missing token only
// shows up as an authorization error from GitHub on the first remote call.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/inovacc/gistvault/internal/application"
	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// FileName is the config file name inside the application directory.
const FileName = "config.ini"

type GitHubConfig struct {
	// APIURL overrides https://api.github.com/ (GitHub Enterprise: https://host/api/v3/)
	APIURL string `ini:"api_url"`

	// Host is used to look up gh CLI credentials
	Host string `ini:"host"`

	// Token is the last-resort token source; prefer the environment
	Token string `ini:"token"`

	// Timeout bounds every remote command
	Timeout time.Duration `ini:"timeout"`
}

type StorageConfig struct {
	Driver string `ini:"driver"`
	Path   string `ini:"path"`
}

type SessionConfig struct {
	TTL time.Duration `ini:"ttl"`
	Dir string        `ini:"dir"`
}

type AuthConfig struct {
	// Hasher is bcrypt or legacy
	Hasher string `ini:"hasher"`
}

type LogConfig struct {
	Level  string `ini:"level"`
	Format string `ini:"format"`
}

type DocumentsConfig struct {
	DefaultFile string `ini:"default_file"`
	Description string `ini:"description"`
	Public      bool   `ini:"public"`

	// ScanSecrets runs the leak scanner over content before upload
	ScanSecrets bool `ini:"scan_secrets"`
}

// Config holds runtime settings for gistvault.
type Config struct {
	GitHub    GitHubConfig    `ini:"github"`
	Storage   StorageConfig   `ini:"storage"`
	Session   SessionConfig   `ini:"session"`
	Auth      AuthConfig      `ini:"auth"`
	Log       LogConfig       `ini:"log"`
	Documents DocumentsConfig `ini:"documents"`

	// AppDir is where the durable store and config file live. Not read from file.
	AppDir string `ini:"-"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		GitHub: GitHubConfig{
			Host:    "github.com",
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "bolt",
		},
		Session: SessionConfig{
			TTL: 12 * time.Hour,
		},
		Auth: AuthConfig{
			Hasher: "bcrypt",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Documents: DocumentsConfig{
			DefaultFile: "data.json",
			Description: "My App Data",
			ScanSecrets: true,
		},
	}
}

// Load builds the configuration for appDir. A missing config file is not an
// error; a malformed one is.
func Load(appDir string) (*Config, error) {
	cfg := Default()
	cfg.AppDir = appDir

	if err := cfg.loadFile(filepath.Join(appDir, FileName)); err != nil {
		return nil, err
	}

	// .env is optional, like a Vite build without one
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Path returns the config file location.
func (c *Config) Path() string {
	return filepath.Join(c.AppDir, FileName)
}

// SessionDir returns the session store directory. By default it is the
// per-user runtime directory itself, which the session store checks for
// ownership before use.
func (c *Config) SessionDir() string {
	if c.Session.Dir != "" {
		return c.Session.Dir
	}

	return application.GetRuntimeDirectory()
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := file.MapTo(c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	setString := func(name string, dst *string) {
		if v := os.Getenv(application.EnvPrefix + name); v != "" {
			*dst = v
		}
	}

	setString("API_URL", &c.GitHub.APIURL)
	setString("GITHUB_HOST", &c.GitHub.Host)
	setString("STORAGE_DRIVER", &c.Storage.Driver)
	setString("STORAGE_PATH", &c.Storage.Path)
	setString("SESSION_DIR", &c.Session.Dir)
	setString("HASHER", &c.Auth.Hasher)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)
	setString("DEFAULT_FILE", &c.Documents.DefaultFile)

	for name, dst := range map[string]*time.Duration{
		"SESSION_TTL": &c.Session.TTL,
		"TIMEOUT":     &c.GitHub.Timeout,
	} {
		v := os.Getenv(application.EnvPrefix + name)
		if v == "" {
			continue
		}

		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", application.EnvPrefix, name, err)
		}

		*dst = d
	}

	if v := os.Getenv(application.EnvPrefix + "SCAN_SECRETS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sSCAN_SECRETS: %w", application.EnvPrefix, err)
		}

		c.Documents.ScanSecrets = b
	}

	return nil
}

// Save writes c to its config file. The token is written only if set.
func (c *Config) Save() error {
	file := ini.Empty()
	if err := ini.ReflectFrom(file, c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if c.GitHub.Token == "" {
		file.Section("github").DeleteKey("token")
	}

	if err := os.MkdirAll(c.AppDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := file.SaveTo(c.Path()); err != nil {
		return fmt.Errorf("failed to write config %s: %w", c.Path(), err)
	}

	return os.Chmod(c.Path(), 0o600)
}
