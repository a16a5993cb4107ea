package sufast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "sufast", cfg.AppName)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, defaultCacheMaxMemoryBytes, cfg.CacheMaxMemoryBytes)
}

func TestConfigLoadFileTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sufast.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name = "custom"
port = 9090
debug_mode = true
`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "custom", cfg.AppName)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.DebugMode)
}

func TestConfigLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sufast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_name: custom-yaml\nport: 9091\n"), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "custom-yaml", cfg.AppName)
	assert.Equal(t, 9091, cfg.Port)
}

func TestConfigLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sufast.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app_name":"custom-json","port":9092}`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "custom-json", cfg.AppName)
	assert.Equal(t, 9092, cfg.Port)
}

func TestConfigLoadFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sufast.ini")
	require.NoError(t, os.WriteFile(path, []byte("app_name=custom"), 0o644))

	cfg := DefaultConfig()
	err := cfg.LoadFile(path)
	assert.Error(t, err)
}

func TestResolvePortSentinel(t *testing.T) {
	assert.Equal(t, 8080, resolvePort(1))
	assert.Equal(t, 3000, resolvePort(3000))
}

func TestBindHost(t *testing.T) {
	assert.Equal(t, "127.0.0.1", bindHost(true))
	assert.Equal(t, "0.0.0.0", bindHost(false))
}
