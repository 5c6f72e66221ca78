package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/biblioteka/internal/entrypoint"
)

func newCleanupAuthorsCommand(loadConfig ConfigLoader) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup-authors",
		Short: "Remove authors that have no titles",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only report how many authors would be removed")

	cmd.RunE = withApp(loadConfig, func(ctx context.Context, app *entrypoint.App) error {
		out := cmd.OutOrStdout()

		if dryRun {
			count, err := app.Authors.CountOrphanAuthors(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d authors without titles\n", count)
			return nil
		}

		removed, err := app.Authors.DeleteOrphanAuthors(ctx)
		app.Audit.LogCleanup("author", removed, err)
		if err != nil {
			return fmt.Errorf("cleanup authors: %w", err)
		}
		fmt.Fprintf(out, "Removed %d authors without titles\n", removed)
		return nil
	})
	return cmd
}
