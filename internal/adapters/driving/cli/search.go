package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driving"
)

var (
	searchTopK      int
	searchOwner     string
	searchResources []string
	searchMinScore  float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed fragments by similarity",
	Long: `Embeds the query and ranks the owner's fragments by cosine
similarity, dropping anything below the relevance floor.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().StringVar(&searchOwner, "owner", "", "owning user id (required)")
	searchCmd.Flags().StringSliceVar(&searchResources, "resources", nil, "restrict to these resource ids")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "override the relevance floor")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	_ = searchCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	scope := domain.AllForOwner(searchOwner)
	if len(searchResources) > 0 {
		scope = domain.SubsetOfResources(searchOwner, searchResources)
	}

	topK := searchTopK
	if topK <= 0 {
		topK = cfg.Search.TopK
	}

	results, err := searchService.Search(context.Background(), args[0], scope, driving.SearchOptions{
		TopK:     topK,
		MinScore: searchMinScore,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchText(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SimilarityResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.SimilarityResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		f := &results[i].Fragment
		citation := f.ResourceTitle
		if f.ResourceAuthor != "" {
			citation += " — " + f.ResourceAuthor
		}
		if citation == "" {
			citation = f.ResourceID
		}

		snippet := f.Text
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, citation, results[i].Score)
		if f.Metadata.Page > 0 {
			cmd.Printf("      Page %d, fragment %d\n", f.Metadata.Page, f.Index)
		}
		cmd.Printf("      %s\n\n", snippet)
	}
	return nil
}
