// Package audit records catalog mutations and maintenance runs.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/biblioteka/internal/database/audit"
	"github.com/mrlokans/biblioteka/internal/entities"
)

// Service writes events in the background so catalog requests never wait
// on the audit table.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Record stores an event synchronously.
func (s *Service) Record(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.Record(ctx, event)
}

func (s *Service) recordAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.Record(context.Background(), event); err != nil {
			log.Error().Err(err).Str("action", event.Action).Msg("Failed to write audit event")
		}
	}()
}

// Wait blocks until every background write has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogMutation records a successful create, update or delete.
func (s *Service) LogMutation(eventType entities.AuditEventType, entityType string, entityID uint, description string) {
	s.recordAsync(&entities.AuditEvent{
		EventType:   eventType,
		Action:      entityType + "_" + string(eventType),
		EntityType:  entityType,
		EntityID:    &entityID,
		Description: clip(description),
		Status:      entities.AuditStatusSuccess,
	})
}

// LogCleanup records a maintenance run that removed stale records. A non-nil
// err marks the run as failed.
func (s *Service) LogCleanup(entityType string, removed int64, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCleanup,
		Action:      entityType + "_cleanup",
		EntityType:  entityType,
		Description: "Removed stale " + entityType + " records",
		Status:      entities.AuditStatusSuccess,
	}
	if meta, mErr := json.Marshal(struct {
		Removed int64 `json:"removed"`
	}{removed}); mErr == nil {
		event.Metadata = string(meta)
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = clip(err.Error())
	}
	s.recordAsync(event)
}

// GetEvents returns a page of events, newest first.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.Find(ctx, audit.Filter{Type: eventType, Limit: limit, Offset: offset})
}

// PurgeOlderThan deletes events older than retention.
func (s *Service) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.PurgeBefore(ctx, time.Now().Add(-retention))
}

// clip keeps messages within the column size without splitting a rune.
func clip(s string) string {
	const ellipsis = "..."
	runes := []rune(s)
	if len(runes) <= entities.AuditMessageSize {
		return s
	}
	return string(runes[:entities.AuditMessageSize-len(ellipsis)]) + ellipsis
}
