package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/biblioteka/internal/entities"
)

const defaultPageSize = 50

// Filter selects a page of audit events. A zero Type matches every type.
type Filter struct {
	Type   entities.AuditEventType
	Limit  int
	Offset int
}

func (f Filter) normalized() Filter {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record stores an event, assigning an event id and timestamp when unset.
func (r *Repository) Record(ctx context.Context, event *entities.AuditEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("record audit event %s: %w", event.Action, err)
	}
	return nil
}

// Find returns the filtered page, newest first, with the total number of
// matching events.
func (r *Repository) Find(ctx context.Context, filter Filter) ([]entities.AuditEvent, int64, error) {
	filter = filter.normalized()

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&entities.AuditEvent{})
		if filter.Type != "" {
			db = db.Where("event_type = ?", filter.Type)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit events: %w", err)
	}

	events := make([]entities.AuditEvent, 0, filter.Limit)
	err := r.db.WithContext(ctx).Scopes(scope).
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list audit events: %w", err)
	}
	return events, total, nil
}

// PurgeBefore deletes events created before cutoff and reports how many
// were removed.
func (r *Repository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge audit events: %w", res.Error)
	}
	return res.RowsAffected, nil
}
