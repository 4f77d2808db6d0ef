// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Driver selection, pool setup, migrations
//	├── tx.go            # Transaction-bound inventory repositories
//	├── books/           # Book catalog
//	├── locations/       # Library branches
//	├── bookcopies/      # Per-location stock counts
//	├── audit/           # Audit trail
//	└── dbutil/          # Error translation shared by the repositories
//
// # Drivers
//
// SQLite is the default and is opened with foreign keys enabled so that
// removing a book or a location cascades to its stock records. MySQL is
// selected with DATABASE_DRIVER=mysql and DATABASE_DSN; row locks
// (SELECT ... FOR UPDATE) are only taken on MySQL.
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database, logger)
//
//	booksRepo := books.NewRepository(db.DB)
//	book, err := booksRepo.FindByID(ctx, 123)
//
//	svc := inventory.NewService(db.Repositories(), db)
//
// # Errors
//
// Repositories return errors matching entities.ErrNotFound for missing rows
// and entities.ErrDuplicateKey for unique index violations.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) and WithTx(tx *gorm.DB) constructors
//  4. Register the entity in Models
//  5. Add compile-time interface checks in internal/interfaces
package database
