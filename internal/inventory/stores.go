package inventory

import (
	"context"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

// BookStore is the slice of the book repository the service needs.
type BookStore interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// LocationStore is the slice of the location repository the service needs.
type LocationStore interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// CopyStore persists stock records. Lookups of a missing record return an
// error matching entities.ErrNotFound.
type CopyStore interface {
	FindForUpdate(ctx context.Context, key entities.BookCopyKey) (*entities.BookCopy, error)
	FindQuantity(ctx context.Context, locationID, bookID uint) (int, error)
	FindAllAtLocation(ctx context.Context, locationID uint, req paging.Request) (paging.Page[entities.BookWithQuantity], error)
	// Insert stores a new record, merging with a concurrently inserted one
	// by adding quantities, and returns the stored quantity.
	Insert(ctx context.Context, record *entities.BookCopy) (int, error)
	// ApplyDelta changes an existing quantity only if it stays non-negative
	// and reports how many rows it changed.
	ApplyDelta(ctx context.Context, key entities.BookCopyKey, delta int) (int64, error)
}

// Repositories groups the stores one unit of work operates on.
type Repositories struct {
	Books     BookStore
	Locations LocationStore
	Copies    CopyStore
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(Repositories) error) error
}
