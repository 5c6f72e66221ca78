package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// OrphanAuthorsCleaner provides the ability to delete authors without titles.
type OrphanAuthorsCleaner interface {
	DeleteOrphanAuthors(ctx context.Context) (int64, error)
}

// CleanupReporter is notified about every cleanup run.
type CleanupReporter interface {
	LogCleanup(entityType string, removed int64, err error)
}

// CleanupOrphanAuthorsTask removes authors that no title references.
type CleanupOrphanAuthorsTask struct{}

// Config returns the queue configuration for author cleanup tasks.
func (t CleanupOrphanAuthorsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_authors",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention:   failedTaskRetention(),
	}
}

// failedTaskRetention keeps finished tasks for a day and the payload of
// failed ones only.
func failedTaskRetention() *backlite.Retention {
	return &backlite.Retention{
		Duration: 24 * time.Hour,
		Data:     &backlite.RetainData{OnlyFailed: true},
	}
}

// CleanupOrphanAuthorsProcessor creates a processor function for
// CleanupOrphanAuthorsTask. reporter may be nil.
func CleanupOrphanAuthorsProcessor(cleaner OrphanAuthorsCleaner, reporter CleanupReporter) backlite.QueueProcessor[CleanupOrphanAuthorsTask] {
	return func(ctx context.Context, task CleanupOrphanAuthorsTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan authors cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanAuthors(ctx)
		if reporter != nil {
			reporter.LogCleanup("author", deleted, err)
		}
		if err != nil {
			return fmt.Errorf("cleanup orphan authors: %w", err)
		}

		log.Info().Int64("deleted", deleted).Msg("Cleaned up orphan authors")
		return nil
	}
}

// NewCleanupOrphanAuthorsQueue creates a backlite queue for author cleanup tasks.
func NewCleanupOrphanAuthorsQueue(cleaner OrphanAuthorsCleaner, reporter CleanupReporter) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanAuthorsProcessor(cleaner, reporter))
}
