// Package file provides the TOML configuration for the Kerygma CLI,
// stored at ~/.kerygma/config.toml.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Storage backend names accepted in config.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the on-disk application configuration.
type Config struct {
	// Storage selects the document database backend.
	Storage StorageConfig `toml:"storage"`

	// Embedding configures the embedding provider.
	Embedding EmbeddingConfig `toml:"embedding"`

	// Search configures similarity ranking.
	Search SearchConfig `toml:"search"`

	// Chunking configures the text chunker.
	Chunking ChunkingConfig `toml:"chunking"`

	// Cache configures the derived-artifact cache.
	Cache CacheConfig `toml:"cache"`
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Backend string `toml:"backend"`
	DataDir string `toml:"data_dir"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	APIKey     string `toml:"api_key"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
	GroupSize  int    `toml:"group_size"`
}

// SearchConfig configures similarity ranking.
type SearchConfig struct {
	// RelevanceFloor is the minimum cosine similarity for a match.
	RelevanceFloor float64 `toml:"relevance_floor"`

	// TopK is the default result cap.
	TopK int `toml:"top_k"`
}

// ChunkingConfig configures the text chunker.
type ChunkingConfig struct {
	TargetSize int `toml:"target_size"`
	Overlap    int `toml:"overlap"`
	MinSize    int `toml:"min_size"`
}

// CacheConfig configures the derived-artifact cache backend.
type CacheConfig struct {
	// Backend is "store" (document database) or "redis".
	Backend string `toml:"backend"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		Embedding: EmbeddingConfig{
			Model:      "text-embedding-3-small",
			Dimensions: 768,
			GroupSize:  10,
		},
		Search: SearchConfig{
			RelevanceFloor: 0.5,
			TopK:           5,
		},
		Chunking: ChunkingConfig{
			TargetSize: 800,
			Overlap:    100,
			MinSize:    200,
		},
		Cache: CacheConfig{
			Backend: "store",
		},
	}
}

// DefaultPath returns ~/.kerygma/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".kerygma", "config.toml"), nil
}

// Load reads the config file, layering it over defaults. A missing file
// yields the defaults. The OPENAI_API_KEY environment variable, when
// set, overrides the stored key.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.APIKey = key
	}

	return cfg, nil
}

// Save writes the config file, creating its directory with owner-only
// permissions (the file holds the API key).
func Save(path string, cfg Config) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	raw, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
