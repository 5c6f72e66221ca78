package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/entrypoint"
)

func newSeedGenresCommand(loadConfig ConfigLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-genres [name...]",
		Short: "Create genres that do not exist yet",
		Long: `Create the named genres. Without arguments the genres listed in
DEFAULT_GENRES are seeded, as on every server start.`,
		Example: `  biblioteka seed-genres
  biblioteka seed-genres Horror "Graphic Novel"`,
	}

	cmd.RunE = withApp(loadConfig, func(ctx context.Context, app *entrypoint.App) error {
		names := cmd.Flags().Args()
		if len(names) == 0 {
			names = app.Config.Catalog.DefaultGenres
		}
		for _, name := range names {
			if err := catalog.ValidateGenreName(name); err != nil {
				return fmt.Errorf("genre %q: %w", name, err)
			}
		}

		created, err := app.DB.SeedGenres(names)
		if err != nil {
			return err
		}

		genres, err := app.Genres.ListGenres(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d genres, %d in total\n", created, len(genres))
		return nil
	})
	return cmd
}
