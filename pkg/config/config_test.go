package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 20, cfg.Percent)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
percent = 35

[cache]
backend = "redis"
redis_addr = "cache.internal:6379"

[server]
addr = ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 35, cfg.Percent)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache.internal:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	// Untouched values keep their defaults.
	assert.Equal(t, "mongodb://localhost:27017", cfg.Cache.MongoURI)
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, "percnt = 35\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestLoadInvalidPercent(t *testing.T) {
	path := writeConfig(t, "percent = 150\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoadInvalidBackend(t *testing.T) {
	path := writeConfig(t, "[cache]\nbackend = \"memcached\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefaultReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bvg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "bvg", "config.toml"), []byte("percent = 5\n"), 0644))

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Percent)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/bvg/config.toml", path)
}
