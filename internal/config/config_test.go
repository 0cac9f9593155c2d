package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the rest of the test so no stray config.yaml is
// picked up.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodySize)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "plaintext", cfg.Auth.CredentialScheme)
	assert.Equal(t, 24*time.Hour, cfg.Reminders.Window)
	assert.Zero(t, cfg.Reminders.SweepInterval)
	assert.False(t, cfg.Reminders.DiscardOnCancel)
	assert.Equal(t, "clinic:reminders", cfg.Reminders.Broker.Channel)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
storage:
  driver: memory
reminders:
  window: 12h
  sweep_interval: 5m
  discard_on_cancel: true
`), 0o600))

	t.Setenv("CLINIC_SERVER_PORT", "9100")
	t.Setenv("CLINIC_SERVER_MAX_BODY_SIZE", "4096")
	t.Setenv("CLINIC_AUTH_CREDENTIAL_SCHEME", "bcrypt")
	t.Setenv("CLINIC_AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, int64(4096), cfg.Server.MaxBodySize)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 12*time.Hour, cfg.Reminders.Window)
	assert.Equal(t, 5*time.Minute, cfg.Reminders.SweepInterval)
	assert.True(t, cfg.Reminders.DiscardOnCancel)
	assert.Equal(t, "bcrypt", cfg.Auth.CredentialScheme)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("CLINIC_STORAGE_DRIVER=memory\nCLINIC_SERVER_PORT=9200\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CLINIC_STORAGE_DRIVER") })
	t.Setenv("CLINIC_SERVER_PORT", "9300")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 9300, cfg.Server.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Storage.Driver = "sqlite"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Auth.CredentialScheme = "md5"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Server.MaxBodySize = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Reminders.Mail.Enabled = true
	assert.Error(t, bad.Validate())
}

func TestWarnings_DefaultSecret(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "auth.jwt_secret")

	cfg.Server.Mode = "test"
	assert.Empty(t, cfg.Warnings())

	cfg.Server.Mode = "release"
	cfg.Auth.JWTSecret = "s3cret"
	assert.Empty(t, cfg.Warnings())
}

func TestLocation(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Timezone: "UTC"}}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Server.Timezone = ""
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
