package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client runs catalog maintenance tasks on a backlite queue stored in its
// own sqlite file.
type Client struct {
	queue  *backlite.Client
	db     *sql.DB
	config Config

	mu      sync.RWMutex
	started bool
	queues  map[string]struct{}
}

// ErrQueueNotRegistered is returned for tasks whose queue was never
// registered; such tasks would be stored but never run.
var ErrQueueNotRegistered = errors.New("queue not registered")

// TasksDBPath returns the task database path kept next to the catalog
// database: "<name>-tasks<ext>".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// NewClient opens (creating if needed) the task database next to mainDBPath
// and installs the queue schema.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := openTaskDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &taskLogger{logger: log.With().Str("component", "tasks").Logger()},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create task queue: %w", err)
	}

	if err := queue.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("install task queue schema: %w", err)
	}

	return &Client{queue: queue, db: db, config: cfg, queues: map[string]struct{}{}}, nil
}

// openTaskDB opens the sqlite file in WAL mode with room for every worker.
func openTaskDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open tasks database: %w", err)
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Register adds queues to the client. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, q := range queues {
		c.queue.Register(q)
		c.queues[q.Config().Name] = struct{}{}
	}
}

// Start launches the workers. Calling it twice has no effect.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Info().Int("workers", c.config.Workers).Msg("Task queue started")
	c.queue.Start(ctx)
}

// Stop waits for running tasks until ctx expires. It reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	if !started {
		return true
	}

	if !c.queue.Stop(ctx) {
		log.Warn().Msg("Task queue stopped before all tasks finished")
		return false
	}
	log.Info().Msg("Task queue stopped")
	return true
}

// Close releases the task database. Call after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// EnqueueAuthorCleanup schedules removal of authors without titles.
func (c *Client) EnqueueAuthorCleanup(ctx context.Context) (string, error) {
	return c.Enqueue(ctx, CleanupOrphanAuthorsTask{})
}

// EnqueueAuditCleanup schedules removal of audit events older than
// retentionDays.
func (c *Client) EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error) {
	return c.Enqueue(ctx, CleanupAuditEventsTask{RetentionDays: retentionDays})
}

// Enqueue saves a single task and returns its id.
func (c *Client) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	name := task.Config().Name

	c.mu.RLock()
	_, registered := c.queues[name]
	c.mu.RUnlock()
	if !registered {
		return "", fmt.Errorf("enqueue %s: %w", name, ErrQueueNotRegistered)
	}

	ids, err := c.queue.Add(task).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", name, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("task %s was not enqueued", name)
	}
	log.Info().Str("task", name).Str("task_id", ids[0]).Msg("Enqueued task")
	return ids[0], nil
}

// Task states reported by TaskStatus.
const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusNotFound = "not_found"
)

// TaskStatus reports the state of a task by id.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (string, error) {
	status, err := c.queue.Status(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("task %s status: %w", taskID, err)
	}

	switch status {
	case backlite.TaskStatusPending:
		return StatusPending, nil
	case backlite.TaskStatusRunning:
		return StatusRunning, nil
	case backlite.TaskStatusSuccess:
		return StatusSuccess, nil
	case backlite.TaskStatusFailure:
		return StatusFailure, nil
	default:
		return StatusNotFound, nil
	}
}

// taskLogger implements backlite.Logger on top of zerolog.
type taskLogger struct {
	logger zerolog.Logger
}

func (l *taskLogger) Info(message string, params ...any) {
	l.logger.Info().Fields(params).Msg(message)
}

func (l *taskLogger) Error(message string, params ...any) {
	l.logger.Error().Fields(params).Msg(message)
}
