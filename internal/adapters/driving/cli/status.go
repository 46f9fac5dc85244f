package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusOwner string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-resource fragment counts",
	Long: `Lists each indexed resource with its fragment count. A resource
showing unindexed fragments was interrupted mid-run and should be
re-indexed.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusOwner, "owner", "", "owning user id (required)")
	_ = statusCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("indexing service not configured")
	}

	statuses, err := indexService.Status(context.Background(), statusOwner)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	if len(statuses) == 0 {
		cmd.Println("No indexed resources.")
		return nil
	}

	for _, st := range statuses {
		line := fmt.Sprintf("  %s: %d fragments", st.ResourceID, st.Fragments)
		if st.Unindexed > 0 {
			line += fmt.Sprintf(" (%d unindexed - consider reindexing)", st.Unindexed)
		}
		cmd.Println(line)
	}
	return nil
}
