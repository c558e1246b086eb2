package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Redis.Mode)
	assert.Equal(t, "parent", cfg.Permission.AncestorMode)
	assert.Equal(t, 2, cfg.Permission.CascadeDepth)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Storage.Enable)
}

func TestLoadConfig_OverridesAndEnv(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: test
jwt:
  secret: ${TEST_JWT_SECRET}
permission:
  ancestorMode: chain
  cascadeDepth: 0
escap:
  overdueCron: "@every 5m"
`), 0o600))

	config = Default()
	t.Cleanup(func() { config = nil })
	require.NoError(t, loadConfig(path))

	cfg := Get()
	assert.Equal(t, "test", cfg.App.Env)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "chain", cfg.Permission.AncestorMode)
	assert.Equal(t, 0, cfg.Permission.CascadeDepth)
	assert.Equal(t, "@every 5m", cfg.Escap.OverdueCron)
	// 未覆盖的字段保留默认值
	assert.Equal(t, 300, cfg.Permission.CacheTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, IsDev())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	config = Default()
	t.Cleanup(func() { config = nil })
	assert.Error(t, loadConfig(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestResolveEnvVar(t *testing.T) {
	t.Setenv("X_VAL", "v")
	assert.Equal(t, "v", resolveEnvVar("${X_VAL}"))
	assert.Equal(t, "${X_UNSET_VAL}", resolveEnvVar("${X_UNSET_VAL}"))
	assert.Equal(t, "plain", resolveEnvVar("plain"))
}
