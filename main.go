package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/biblioteka/internal/cli"
	"github.com/mrlokans/biblioteka/internal/config"
)

// Set at build time with -ldflags "-X main.Version=... -X main.Commit=..."
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	root := cli.NewRootCommand(Version, config.NewConfig)
	root.SetVersionTemplate("biblioteka {{.Version}} (" + Commit + ")\n")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("biblioteka failed")
		os.Exit(1)
	}
}
