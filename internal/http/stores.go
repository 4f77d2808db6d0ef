package http

import (
	"context"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/locations"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

// This file consolidates the service interfaces used by HTTP controllers.
// Each controller depends only on the methods it calls.

// BookService is the book half of the catalog.
type BookService interface {
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
	ListBooks(ctx context.Context, filter books.Filter, req paging.Request) (paging.Page[entities.Book], error)
	CreateBook(ctx context.Context, book *entities.Book) (*entities.Book, error)
	UpdateBook(ctx context.Context, id uint, book *entities.Book) (*entities.Book, error)
	DeleteBook(ctx context.Context, id uint) error
}

// LocationService is the location half of the catalog.
type LocationService interface {
	GetLocation(ctx context.Context, id uint) (*entities.Location, error)
	ListLocations(ctx context.Context, filter locations.Filter, req paging.Request) (paging.Page[entities.Location], error)
	CreateLocation(ctx context.Context, location *entities.Location) (*entities.Location, error)
	UpdateLocation(ctx context.Context, id uint, location *entities.Location) (*entities.Location, error)
	DeleteLocation(ctx context.Context, id uint) error
}

// StatsProvider reports library totals.
type StatsProvider interface {
	Stats(ctx context.Context) (entities.LibraryStats, error)
}

// CatalogService combines everything the catalog controllers need.
type CatalogService interface {
	BookService
	LocationService
	StatsProvider
}

// InventoryService reconciles book copy quantities.
type InventoryService interface {
	UpdateQuantity(ctx context.Context, locationID, bookID uint, delta int) (int, error)
	GetQuantity(ctx context.Context, locationID, bookID uint) (int, error)
	GetBooksAtLocation(ctx context.Context, locationID uint, req paging.Request) (paging.Page[entities.BookWithQuantity], error)
}

// HealthChecker is satisfied by *database.Database.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AuditReader lists recorded audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, filter audit.Filter, req paging.Request) (paging.Page[entities.AuditEvent], error)
}
