package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/inventory"
	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/paging"
)

const entityBookCopy = "book_copy"

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	logger  logrus.FieldLogger
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{repo: repo, logger: logger}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			logging.LogError(s.logger, "audit", "LogAsync", event.Action, err)
		}
	}()
}

// Wait blocks until every event queued by LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// StockChanged records a committed quantity change.
func (s *Service) StockChanged(_ context.Context, change inventory.StockChange) {
	action := "copies_added"
	verb := "Added"
	count := change.Delta
	if change.Delta < 0 {
		action = "copies_removed"
		verb = "Removed"
		count = -change.Delta
	}

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventStockChange,
		Action:      action,
		Description: fmt.Sprintf("%s %d copies of book %d at location %d", verb, count, change.BookID, change.LocationID),
		EntityType:  entityBookCopy,
		EntityID:    &change.BookID,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"location_id": change.LocationID,
		"book_id":     change.BookID,
		"delta":       change.Delta,
		"previous":    change.Previous,
		"quantity":    change.Quantity,
		"created":     change.Created,
	}
	if mdBytes, err := json.Marshal(metadata); err == nil {
		event.Metadata = string(mdBytes)
	}

	s.LogAsync(event)
}

// LogCreate records a creation event.
func (s *Service) LogCreate(entityType string, entityID uint, entityName string) {
	s.logEntity(entities.AuditEventCreate, "Created", entityType, entityID, entityName)
}

// LogUpdate records an update event.
func (s *Service) LogUpdate(entityType string, entityID uint, entityName string) {
	s.logEntity(entities.AuditEventUpdate, "Updated", entityType, entityID, entityName)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(entityType string, entityID uint, entityName string) {
	s.logEntity(entities.AuditEventDelete, "Deleted", entityType, entityID, entityName)
}

func (s *Service) logEntity(eventType entities.AuditEventType, verb, entityType string, entityID uint, entityName string) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      entityType + "_" + string(eventType),
		Description: truncate(verb+" "+entityType+": "+entityName, 500),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, filter audit.Filter, req paging.Request) (paging.Page[entities.AuditEvent], error) {
	return s.repo.GetEvents(ctx, filter, req)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - len("...")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
