package tasks

import (
	"time"

	"github.com/mrlokans/biblioteka/internal/config"
)

const (
	defaultWorkers         = 1
	defaultReleaseAfter    = 15 * time.Minute
	defaultCleanupInterval = time.Hour
)

// Config tunes the worker pool of the task queue.
type Config struct {
	Workers int
	// Tasks still running after this long are handed to another worker
	ReleaseAfter time.Duration
	// How often finished tasks are purged
	CleanupInterval time.Duration
}

// DefaultConfig returns the settings used for unset values.
func DefaultConfig() Config {
	return Config{
		Workers:         defaultWorkers,
		ReleaseAfter:    defaultReleaseAfter,
		CleanupInterval: defaultCleanupInterval,
	}
}

// ConfigFrom converts application settings, falling back to defaults for
// zero or negative values.
func ConfigFrom(settings config.Tasks) Config {
	return Config{
		Workers:         settings.Workers,
		ReleaseAfter:    settings.ReleaseAfter,
		CleanupInterval: settings.CleanupInterval,
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = defaultReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = defaultCleanupInterval
	}
	return c
}
