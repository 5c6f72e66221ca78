// Package cli defines the biblioteka command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrlokans/biblioteka/internal/config"
	"github.com/mrlokans/biblioteka/internal/entrypoint"
	"github.com/mrlokans/biblioteka/internal/logging"
)

// ConfigLoader produces the configuration for a command run.
type ConfigLoader func() *config.Config

// NewRootCommand builds the command tree. Running the binary without a
// subcommand starts the server.
func NewRootCommand(version string, loadConfig ConfigLoader) *cobra.Command {
	serve := newServeCommand(version, loadConfig)

	root := &cobra.Command{
		Use:           "biblioteka",
		Short:         "Library catalog of titles, authors and genres",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		newSeedGenresCommand(loadConfig),
		newListTitlesCommand(loadConfig),
		newCleanupAuthorsCommand(loadConfig),
	)
	return root
}

func newServeCommand(version string, loadConfig ConfigLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(loadConfig(), version)
		},
	}
}

// withApp opens the catalog for a one-off command and closes it afterwards.
// Background workers are not started.
func withApp(loadConfig ConfigLoader, fn func(ctx context.Context, app *entrypoint.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logging.Init(cfg.Logging.Level, cfg.IsDevelopment())

		app, err := entrypoint.Open(cfg)
		if err != nil {
			return err
		}
		defer app.Close(context.Background())

		return fn(cmd.Context(), app)
	}
}
