// Package cli implements the cobra command surface of the Kerygma CLI.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerygma-labs/kerygma-cli/internal/adapters/driven/cache/redis"
	"github.com/kerygma-labs/kerygma-cli/internal/adapters/driven/config/file"
	"github.com/kerygma-labs/kerygma-cli/internal/adapters/driven/embedding/openai"
	"github.com/kerygma-labs/kerygma-cli/internal/adapters/driven/storage"
	"github.com/kerygma-labs/kerygma-cli/internal/adapters/driven/storage/memory"
	"github.com/kerygma-labs/kerygma-cli/internal/adapters/driven/storage/sqlite"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driven"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driving"
	"github.com/kerygma-labs/kerygma-cli/internal/core/services"
	"github.com/kerygma-labs/kerygma-cli/internal/logger"
)

var (
	flagVerbose bool
	flagConfig  string

	cfg file.Config

	database      driven.Database
	indexService  driving.IndexingService
	searchService driving.SearchService
	artifactCache driving.ArtifactCache
)

var rootCmd = &cobra.Command{
	Use:   "kerygma",
	Short: "Semantic retrieval for sermon preparation libraries",
	Long: `Kerygma indexes library documents into searchable fragments and
ranks them against study questions by embedding similarity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		// Version never needs services or a config file.
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = file.Load(flagConfig)
		if err != nil {
			return err
		}
		return buildServices()
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if database != nil {
			return database.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default ~/.kerygma/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// buildServices wires adapters into core services from the loaded
// config. Tests replace the package-level services directly instead.
func buildServices() error {
	var err error
	switch cfg.Storage.Backend {
	case file.BackendMemory:
		database = memory.NewDatabase()
	case file.BackendSQLite, "":
		database, err = sqlite.NewDatabase(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	fragments := storage.NewFragmentStore(database)

	var embedder driven.EmbeddingService
	if cfg.Embedding.APIKey != "" {
		embedder, err = openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			GroupSize:  cfg.Embedding.GroupSize,
		})
		if err != nil {
			return fmt.Errorf("configure embeddings: %w", err)
		}
	} else {
		logger.Warn("No embedding API key configured; indexing and search are disabled")
	}

	var artifacts driven.ArtifactStore
	switch cfg.Cache.Backend {
	case "redis":
		artifacts, err = redis.NewArtifactStore(context.Background(), redis.Config{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("connect artifact cache: %w", err)
		}
	default:
		artifacts = storage.NewArtifactStore(database)
	}

	indexService = services.NewIndexingService(fragments, embedder)
	searchService = services.NewSearchService(fragments, embedder, cfg.Search.RelevanceFloor)
	artifactCache = services.NewArtifactCacheService(artifacts)
	return nil
}
