package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database/bookcopies"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/dbutil"
	"github.com/mrlokans/library/internal/database/locations"
	"github.com/mrlokans/library/internal/inventory"
)

// Repositories returns the inventory stores bound to the shared connection.
func (d *Database) Repositories() inventory.Repositories {
	return repositoriesFor(d.DB)
}

const (
	maxTxAttempts = 3
	txRetryDelay  = 20 * time.Millisecond
)

// InTx runs fn with stores bound to one transaction.
//
// On MySQL two first updates of the same stock record both hold the gap
// lock taken by SELECT ... FOR UPDATE, and InnoDB aborts one of them as a
// deadlock. Such transactions are rolled back and run again, up to
// maxTxAttempts times; fn must not have effects outside the transaction.
func (d *Database) InTx(ctx context.Context, fn func(inventory.Repositories) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(repositoriesFor(tx))
		})
		if err == nil || !dbutil.IsRetryable(err) || attempt == maxTxAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * txRetryDelay):
		}
	}
	return err
}

func repositoriesFor(db *gorm.DB) inventory.Repositories {
	return inventory.Repositories{
		Books:     books.NewRepository(db),
		Locations: locations.NewRepository(db),
		Copies:    bookcopies.NewRepository(db),
	}
}
