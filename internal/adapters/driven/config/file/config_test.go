package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 768, cfg.Embedding.Dimensions)
	assert.Equal(t, 0.5, cfg.Search.RelevanceFloor)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, 800, cfg.Chunking.TargetSize)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Equal(t, 200, cfg.Chunking.MinSize)
	assert.Equal(t, "store", cfg.Cache.Backend)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "memory"

[search]
relevance_floor = 0.55

[chunking]
target_size = 400

[cache]
backend = "redis"
redis_addr = "localhost:6380"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 0.55, cfg.Search.RelevanceFloor)
	assert.Equal(t, 400, cfg.Chunking.TargetSize)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "localhost:6380", cfg.Cache.RedisAddr)

	// Unset sections keep their defaults.
	assert.Equal(t, 768, cfg.Embedding.Dimensions)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[embedding]\napi_key = \"from-file\"\n"), 0600))

	t.Setenv("OPENAI_API_KEY", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Embedding.APIKey)

	t.Setenv("OPENAI_API_KEY", "")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Embedding.APIKey)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Default()
	want.Storage.Backend = BackendMemory
	want.Embedding.APIKey = "sk-test"
	want.Search.RelevanceFloor = 0.6

	require.NoError(t, Save(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
