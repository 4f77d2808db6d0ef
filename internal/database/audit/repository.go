package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database/dbutil"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

var sortColumns = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"event_type": "event_type",
}

var defaultSort = paging.Order{Field: "created_at", Direction: paging.Desc}

// Filter narrows GetEvents. Zero values match everything.
type Filter struct {
	EventType  entities.AuditEventType
	EntityType string
	EntityID   uint
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// GetEvents retrieves a page of audit events, most recent first unless
// req asks otherwise.
func (r *Repository) GetEvents(ctx context.Context, filter Filter, req paging.Request) (paging.Page[entities.AuditEvent], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entities.AuditEvent{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return paging.Page[entities.AuditEvent]{}, err
	}

	query, err := req.Apply(r.db.WithContext(ctx).Scopes(filter.scope), sortColumns, defaultSort)
	if err != nil {
		return paging.Page[entities.AuditEvent]{}, err
	}

	var events []entities.AuditEvent
	if err := query.Order("id DESC").Find(&events).Error; err != nil {
		return paging.Page[entities.AuditEvent]{}, err
	}
	return paging.New(events, req, total), nil
}

func (f Filter) scope(db *gorm.DB) *gorm.DB {
	if f.EventType != "" {
		db = db.Where("event_type = ?", f.EventType)
	}
	if f.EntityType != "" {
		db = db.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID > 0 {
		db = db.Where("entity_id = ?", f.EntityID)
	}
	return db
}

// GetRecentEvents retrieves audit events since a specific time.
func (r *Repository) GetRecentEvents(ctx context.Context, since time.Time) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := r.db.WithContext(ctx).Where("created_at > ?", since).Order("created_at DESC").Find(&events).Error
	return events, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}

// GetEventByID retrieves a single audit event by ID.
func (r *Repository) GetEventByID(ctx context.Context, id uint) (*entities.AuditEvent, error) {
	var event entities.AuditEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, dbutil.Translate(err)
	}
	return &event, nil
}
