// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.FindByID(ctx, 123)
//	page, err := repo.FindAll(ctx, books.Filter{Author: "tolkien"}, paging.NewRequest(0, 20))
package books

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database/dbutil"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

// SortColumns maps sortable JSON fields to columns.
var SortColumns = map[string]string{
	"id":               "id",
	"title":            "title",
	"author":           "author",
	"isbn":             "isbn",
	"publication_date": "publication_date",
}

var defaultSort = paging.Order{Field: "title", Direction: paging.Asc}

// Filter narrows FindAll. Empty fields match everything; set fields are
// case-insensitive substring matches.
type Filter struct {
	Title  string
	Author string
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return dbutil.Translate(r.db.WithContext(ctx).Create(book).Error)
}

// Save inserts the book when it has no ID and overwrites every column otherwise.
func (r *Repository) Save(ctx context.Context, book *entities.Book) error {
	return dbutil.Translate(r.db.WithContext(ctx).Save(book).Error)
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, dbutil.Translate(err)
	}
	return &book, nil
}

func (r *Repository) FindByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error; err != nil {
		return nil, dbutil.Translate(err)
	}
	return &book, nil
}

func (r *Repository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// DeleteByID removes the book and every stock record that references it.
// Returns entities.ErrNotFound when no book has the given id.
func (r *Repository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookCopy{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("book %d: %w", id, entities.ErrNotFound)
		}
		return nil
	})
}

// FindAll returns one page of books matching filter, sorted by title when
// the request carries no order.
func (r *Repository) FindAll(ctx context.Context, filter Filter, req paging.Request) (paging.Page[entities.Book], error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Scopes(filter.scope).Count(&total).Error
	if err != nil {
		return paging.Page[entities.Book]{}, err
	}

	query, err := req.Apply(r.db.WithContext(ctx).Scopes(filter.scope), SortColumns, defaultSort)
	if err != nil {
		return paging.Page[entities.Book]{}, err
	}

	var books []entities.Book
	if err := query.Order("id").Find(&books).Error; err != nil {
		return paging.Page[entities.Book]{}, err
	}
	return paging.New(books, req, total), nil
}

func (f Filter) scope(db *gorm.DB) *gorm.DB {
	if f.Title != "" {
		db = db.Where("LOWER(title) LIKE LOWER(?)", "%"+f.Title+"%")
	}
	if f.Author != "" {
		db = db.Where("LOWER(author) LIKE LOWER(?)", "%"+f.Author+"%")
	}
	return db
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}
