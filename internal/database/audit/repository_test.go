package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/biblioteka/internal/entities"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))
	return NewRepository(db)
}

// event builds a successful title event created age ago.
func event(eventType entities.AuditEventType, age time.Duration) *entities.AuditEvent {
	e := &entities.AuditEvent{
		EventType: eventType,
		Action:    "title_" + string(eventType),
		Status:    entities.AuditStatusSuccess,
	}
	if age > 0 {
		e.CreatedAt = time.Now().Add(-age)
	}
	return e
}

func TestRepository_Record(t *testing.T) {
	repo := newTestRepository(t)
	e := event(entities.AuditEventCreate, 0)

	require.NoError(t, repo.Record(context.Background(), e))

	assert.NotZero(t, e.ID)
	assert.Len(t, e.EventID, 36)
	assert.WithinDuration(t, time.Now(), e.CreatedAt, time.Minute)
}

func TestRepository_Find(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	// Every third event is a delete, 5 of 15 in total
	for i := 0; i < 15; i++ {
		eventType := entities.AuditEventUpdate
		if i%3 == 0 {
			eventType = entities.AuditEventDelete
		}
		require.NoError(t, repo.Record(ctx, event(eventType, time.Duration(i+1)*time.Hour)))
	}

	tests := []struct {
		name      string
		filter    Filter
		wantLen   int
		wantTotal int64
	}{
		{"first page", Filter{Limit: 10}, 10, 15},
		{"second page", Filter{Limit: 10, Offset: 10}, 5, 15},
		{"defaults for bad paging", Filter{Offset: -1}, 15, 15},
		{"filtered by type", Filter{Type: entities.AuditEventDelete}, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, total, err := repo.Find(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			require.Len(t, events, tt.wantLen)
			for i := 1; i < len(events); i++ {
				assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt), "events must be newest first")
			}
			if tt.filter.Type != "" {
				for _, e := range events {
					assert.Equal(t, tt.filter.Type, e.EventType)
				}
			}
		})
	}
}

func TestRepository_PurgeBefore(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	stale := event(entities.AuditEventCleanup, 100*24*time.Hour)
	fresh := event(entities.AuditEventCreate, 0)
	require.NoError(t, repo.Record(ctx, stale))
	require.NoError(t, repo.Record(ctx, fresh))

	deleted, err := repo.PurgeBefore(ctx, time.Now().Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.Find(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, fresh.EventID, events[0].EventID)
}
