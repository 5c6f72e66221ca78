package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mrlokans/biblioteka/internal/entities"
	"github.com/mrlokans/biblioteka/internal/entrypoint"
)

func newListTitlesCommand(loadConfig ConfigLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-titles",
		Short: "Print every title with its author and genres",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = withApp(loadConfig, func(ctx context.Context, app *entrypoint.App) error {
		titles, err := app.Titles.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tGENRES")
		for _, t := range titles {
			genres := lo.Map(t.Genres, func(g entities.Genre, _ int) string { return g.Name })
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Name, t.Author.Name, strings.Join(genres, ", "))
		}
		return w.Flush()
	})
	return cmd
}
