package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "github.com", c.GitHub.Host)
	assert.Equal(t, 30*time.Second, c.GitHub.Timeout)
	assert.Equal(t, "bolt", c.Storage.Driver)
	assert.Equal(t, 12*time.Hour, c.Session.TTL)
	assert.Equal(t, "bcrypt", c.Auth.Hasher)
	assert.Equal(t, "data.json", c.Documents.DefaultFile)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Storage.Driver)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	dir := t.TempDir()
	content := `[github]
api_url = https://ghe.example.com/api/v3/
timeout = 5s

[storage]
driver = sqlite

[session]
ttl = 1h

[log]
level = debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	t.Setenv("GISTVAULT_SESSION_TTL", "90m")
	t.Setenv("GISTVAULT_LOG_FORMAT", "json")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3/", cfg.GitHub.APIURL)
	assert.Equal(t, 5*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, 90*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "github.com", cfg.GitHub.Host, "keys absent from the file keep defaults")
}

func TestLoad_InvalidEnvDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GISTVAULT_TIMEOUT", "soon")

	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)

	require.NoError(t, os.WriteFile(filepath.Join(work, ".env"),
		[]byte("GISTVAULT_STORAGE_DRIVER=memory\nGISTVAULT_LOG_LEVEL=error\n"), 0o600))

	t.Setenv("GISTVAULT_LOG_LEVEL", "info")
	// registered so t restores the value godotenv sets, then unset so godotenv may set it
	t.Setenv("GISTVAULT_STORAGE_DRIVER", "")
	require.NoError(t, os.Unsetenv("GISTVAULT_STORAGE_DRIVER"))

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())

	dir := t.TempDir()
	cfg := Default()
	cfg.AppDir = dir
	cfg.Storage.Driver = "sqlite"
	cfg.Session.TTL = 2 * time.Hour

	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(cfg.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "token")

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", loaded.Storage.Driver)
	assert.Equal(t, 2*time.Hour, loaded.Session.TTL)
}

func TestSessionDir(t *testing.T) {
	cfg := Default()
	cfg.Session.Dir = "/tmp/custom"
	assert.Equal(t, "/tmp/custom", cfg.SessionDir())

	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	cfg.Session.Dir = ""
	assert.Equal(t, filepath.Join("/run/user/1000", "gistvault"), cfg.SessionDir())
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)

	require.NoError(t, os.WriteFile(filepath.Join(work, ".env"),
		[]byte("GISTVAULT_HASHER=\"bcrypt\n"), 0o600))

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

func TestLoad_ScanSecrets(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.Documents.ScanSecrets)

	t.Setenv("GISTVAULT_SCAN_SECRETS", "false")

	cfg, err = Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.Documents.ScanSecrets)

	t.Setenv("GISTVAULT_SCAN_SECRETS", "maybe")

	_, err = Load(t.TempDir())
	require.Error(t, err)
}
