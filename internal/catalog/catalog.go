// Package catalog manages the books and locations of the library.
package catalog

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/locations"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/paging"
)

type BookRepository interface {
	Create(ctx context.Context, book *entities.Book) error
	Save(ctx context.Context, book *entities.Book) error
	FindByID(ctx context.Context, id uint) (*entities.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*entities.Book, error)
	DeleteByID(ctx context.Context, id uint) error
	FindAll(ctx context.Context, filter books.Filter, req paging.Request) (paging.Page[entities.Book], error)
	Count(ctx context.Context) (int64, error)
}

type LocationRepository interface {
	Create(ctx context.Context, location *entities.Location) error
	Save(ctx context.Context, location *entities.Location) error
	FindByID(ctx context.Context, id uint) (*entities.Location, error)
	FindByName(ctx context.Context, name string) (*entities.Location, error)
	DeleteByID(ctx context.Context, id uint) error
	FindAll(ctx context.Context, filter locations.Filter, req paging.Request) (paging.Page[entities.Location], error)
	Count(ctx context.Context) (int64, error)
}

type CopyCounter interface {
	TotalQuantity(ctx context.Context) (int64, error)
}

// AuditLogger records catalog changes. Implementations must not block.
type AuditLogger interface {
	LogCreate(entityType string, entityID uint, name string)
	LogUpdate(entityType string, entityID uint, name string)
	LogDelete(entityType string, entityID uint, name string)
}

type Service struct {
	books     BookRepository
	locations LocationRepository
	copies    CopyCounter
	audit     AuditLogger
	logger    logrus.FieldLogger
}

type Option func(*Service)

func WithAudit(audit AuditLogger) Option {
	return func(s *Service) { s.audit = audit }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(books BookRepository, locations LocationRepository, copies CopyCounter, opts ...Option) *Service {
	s := &Service{
		books:     books,
		locations: locations,
		copies:    copies,
		audit:     nopAudit{},
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats counts the books, locations and copies held by the library.
func (s *Service) Stats(ctx context.Context) (entities.LibraryStats, error) {
	var stats entities.LibraryStats
	var err error

	if stats.TotalBooks, err = s.books.Count(ctx); err != nil {
		return stats, err
	}
	if stats.TotalLocations, err = s.locations.Count(ctx); err != nil {
		return stats, err
	}
	if stats.TotalCopies, err = s.copies.TotalQuantity(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

type nopAudit struct{}

func (nopAudit) LogCreate(string, uint, string) {}
func (nopAudit) LogUpdate(string, uint, string) {}
func (nopAudit) LogDelete(string, uint, string) {}
