package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kerygma-labs/kerygma-cli/internal/chunker"
	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
)

var (
	indexResourceID string
	indexTitle      string
	indexAuthor     string
	indexOwner      string
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Index a document into searchable fragments",
	Long: `Reads extracted text from a file, splits it into overlapping
sentence-aligned fragments, embeds them and stores the result.
Re-running for the same resource replaces its fragments entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex [file]",
	Short: "Delete a resource's fragments and index it afresh",
	Args:  cobra.ExactArgs(1),
	RunE:  runReindex,
}

func init() {
	for _, cmd := range []*cobra.Command{indexCmd, reindexCmd} {
		cmd.Flags().StringVar(&indexResourceID, "resource", "", "resource id (required)")
		cmd.Flags().StringVar(&indexTitle, "title", "", "resource title for citations")
		cmd.Flags().StringVar(&indexAuthor, "author", "", "resource author for citations")
		cmd.Flags().StringVar(&indexOwner, "owner", "", "owning user id (required)")
		_ = cmd.MarkFlagRequired("resource")
		_ = cmd.MarkFlagRequired("owner")
		rootCmd.AddCommand(cmd)
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	return indexFile(cmd, args[0], false)
}

func runReindex(cmd *cobra.Command, args []string) error {
	return indexFile(cmd, args[0], true)
}

func indexFile(cmd *cobra.Command, path string, force bool) error {
	if indexService == nil {
		return errors.New("indexing service not configured")
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	resource := domain.Resource{
		ID:      indexResourceID,
		Title:   indexTitle,
		Author:  indexAuthor,
		OwnerID: indexOwner,
	}
	opts := chunker.Options{
		TargetSize: cfg.Chunking.TargetSize,
		Overlap:    cfg.Chunking.Overlap,
		MinSize:    cfg.Chunking.MinSize,
	}

	ctx := context.Background()
	var fragments []domain.Fragment
	if force {
		fragments, err = indexService.Reindex(ctx, resource, string(text), opts)
	} else {
		fragments, err = indexService.Index(ctx, resource, string(text), opts)
	}
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	cmd.Printf("Indexed %d fragments for %s\n", len(fragments), resource.ID)
	return nil
}
