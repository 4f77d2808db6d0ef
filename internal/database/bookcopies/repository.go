// Package bookcopies stores per-location stock counts.
//
// Rows are keyed by (book_id, location_id) and are only written through
// Insert and ApplyDelta, which keep the quantity non-negative under
// concurrent writers.
package bookcopies

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/database/dbutil"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

// SortColumns maps sortable fields of the stock listing to columns.
var SortColumns = map[string]string{
	"title":    "books.title",
	"author":   "books.author",
	"isbn":     "books.isbn",
	"quantity": "book_copies.quantity",
}

var defaultSort = paging.Order{Field: "title", Direction: paging.Asc}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, key entities.BookCopyKey) (*entities.BookCopy, error) {
	return r.find(r.db.WithContext(ctx), key)
}

// FindForUpdate reads the row and, where the dialect supports it, locks it
// until the surrounding transaction ends.
func (r *Repository) FindForUpdate(ctx context.Context, key entities.BookCopyKey) (*entities.BookCopy, error) {
	db := r.db.WithContext(ctx)
	if dbutil.SupportsRowLocks(db) {
		db = db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return r.find(db, key)
}

func (r *Repository) find(db *gorm.DB, key entities.BookCopyKey) (*entities.BookCopy, error) {
	var record entities.BookCopy
	err := db.Where("book_id = ? AND location_id = ?", key.BookID, key.LocationID).First(&record).Error
	if err != nil {
		return nil, dbutil.Translate(err)
	}
	return &record, nil
}

// Save writes the row as given, replacing any stored quantity.
func (r *Repository) Save(ctx context.Context, record *entities.BookCopy) error {
	return dbutil.Translate(r.db.WithContext(ctx).Save(record).Error)
}

func (r *Repository) FindQuantity(ctx context.Context, locationID, bookID uint) (int, error) {
	var quantities []int
	err := r.db.WithContext(ctx).Model(&entities.BookCopy{}).
		Where("book_id = ? AND location_id = ?", bookID, locationID).
		Limit(1).
		Pluck("quantity", &quantities).Error
	if err != nil {
		return 0, err
	}
	if len(quantities) == 0 {
		return 0, entities.ErrNotFound
	}
	return quantities[0], nil
}

// Insert stores record, or adds record.Quantity to an existing row for the same
// key. record.Quantity is set to the stored value afterwards.
func (r *Repository) Insert(ctx context.Context, record *entities.BookCopy) (int, error) {
	delta := record.Quantity
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "book_id"}, {Name: "location_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		}),
	}).Create(record).Error
	if err != nil {
		return 0, dbutil.Translate(err)
	}

	stored, err := r.FindQuantity(ctx, record.LocationID, record.BookID)
	if err != nil {
		return 0, err
	}
	record.Quantity = stored
	return stored, nil
}

// ApplyDelta adds delta to the stored quantity unless the result would be
// negative. It returns the number of rows changed: 0 means the row is
// missing or holds fewer than -delta copies.
func (r *Repository) ApplyDelta(ctx context.Context, key entities.BookCopyKey, delta int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.BookCopy{}).
		Where("book_id = ? AND location_id = ? AND quantity + ? >= 0", key.BookID, key.LocationID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return result.RowsAffected, result.Error
}

// FindAllAtLocation lists the books stocked at a location with their
// quantities, ordered by title and then book id unless req says otherwise.
func (r *Repository) FindAllAtLocation(ctx context.Context, locationID uint, req paging.Request) (paging.Page[entities.BookWithQuantity], error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.BookCopy{}).
		Where("location_id = ?", locationID).
		Count(&total).Error
	if err != nil {
		return paging.Page[entities.BookWithQuantity]{}, err
	}

	query := r.db.WithContext(ctx).Table("book_copies").
		Select("books.id AS book_id, books.title, books.author, books.isbn, book_copies.quantity").
		Joins("JOIN books ON books.id = book_copies.book_id").
		Where("book_copies.location_id = ?", locationID)

	query, err = req.Apply(query, SortColumns, defaultSort)
	if err != nil {
		return paging.Page[entities.BookWithQuantity]{}, err
	}

	var rows []entities.BookWithQuantity
	if err := query.Order("books.id").Scan(&rows).Error; err != nil {
		return paging.Page[entities.BookWithQuantity]{}, err
	}
	return paging.New(rows, req, total), nil
}

// TotalQuantity sums every stock record in the library.
func (r *Repository) TotalQuantity(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.BookCopy{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}
