package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "conceptnametag-service", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, LookupBackendDatabase, cfg.Lookup.Backend)
	assert.Equal(t, DefaultManagePrivilege, cfg.Auth.ManagePrivilege)
	assert.Equal(t, "X-User-Privileges", cfg.Auth.RolesHeader)
	assert.Equal(t, "terminology-service", cfg.Services.Terminology.Name)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/-/metrics", cfg.Metrics.Path)

	require.NoError(t, cfg.Validate(), "defaults must be a valid configuration")
}

func TestLoad_Durations(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Validation.ReloadDebounce)
}

func TestLoad_MaxLengthDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		"tag":         50,
		"voidReason":  255,
		"description": 65535,
		"uuid":        38,
	}, cfg.Validation.MaxLengths["concept_name_tag"])
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "trace")
	t.Setenv("APP_LOOKUP_BACKEND", "remote")
	t.Setenv("APP_DATABASE_PATH", "/var/lib/tags.db")
	t.Setenv("APP_AUTH_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "trace", cfg.Log.Level)
	assert.Equal(t, LookupBackendRemote, cfg.Lookup.Backend)
	assert.Equal(t, "/var/lib/tags.db", cfg.Database.Path)
	assert.True(t, cfg.Auth.Enabled)
}

func TestLoadFrom_ProfileFiles(t *testing.T) {
	dir := t.TempDir()

	base := `
app:
  environment: dev
validation:
  max_lengths:
    concept_name_tag:
      tag: 100
`
	profile := `
database:
  path: /tmp/profile.db
lookup:
  backend: remote
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(base), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staging.yaml"), []byte(profile), 0o600))

	cfg, err := LoadFrom(dir, "staging")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Environment)
	assert.Equal(t, 100, cfg.Validation.MaxLengths["concept_name_tag"]["tag"])
	assert.Equal(t, 255, cfg.Validation.MaxLengths["concept_name_tag"]["voidReason"], "defaults survive a partial file")
	assert.Equal(t, "/tmp/profile.db", cfg.Database.Path)
	assert.Equal(t, LookupBackendRemote, cfg.Lookup.Backend)
}

func TestLoadFrom_MissingProfileIsIgnored(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "conceptnametag-service", cfg.App.Name)
}

func TestLoadFrom_BrokenYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("server: [port"), 0o600))

	_, err := LoadFrom(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

func TestDefaults(t *testing.T) {
	d := defaults()

	assert.Equal(t, "conceptnametag-service", d["app.name"])
	assert.Equal(t, 50, d["validation.max_lengths.concept_name_tag.tag"])
	assert.Equal(t, 255, d["validation.max_lengths.concept_name_tag.voidReason"])
	assert.Equal(t, DefaultDatabaseMaxOpenConns, d["database.max_open_conns"])
}
