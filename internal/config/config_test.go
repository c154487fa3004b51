package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
http_server:
  address: "localhost:8082"
session:
  secret: "s3cret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "localhost:8082", cfg.HTTPServer.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, DriverRemote, cfg.Storage.Driver)
	assert.Equal(t, "http://localhost:3000", cfg.StudentsAPI.BaseURL)
	assert.Equal(t, "students-admin", cfg.Session.CookieName)
	assert.Equal(t, "MuhammadAmin", cfg.Admin.Username)
	assert.Equal(t, "1234", cfg.Admin.Password)
	assert.Equal(t, 2*time.Hour, cfg.Workspace.MaxIdle)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
http_server:
  address: "localhost:8082"
students_api:
  base_url: "http://api.local:3000"
  timeout: 3s
session:
  secret: "s3cret"
`)
	t.Setenv("STUDENTS_API_BASE_URL", "http://override:9000")
	t.Setenv("STORAGE_DRIVER", DriverSQLite)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override:9000", cfg.StudentsAPI.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.StudentsAPI.Timeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
}

func TestLoadMissingRequired(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
http_server:
  address: "localhost:8082"
`)
	// Setenv registers the restore; the variable must be absent, not empty.
	t.Setenv("SESSION_SECRET", "")
	require.NoError(t, os.Unsetenv("SESSION_SECRET"))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
