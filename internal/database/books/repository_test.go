package books

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test_books.db")
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.Location{}, &entities.BookCopy{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	})
	return db
}

func newBook(title, author, isbn string) *entities.Book {
	return &entities.Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		PublicationDate: time.Date(1954, 7, 29, 0, 0, 0, 0, time.UTC),
	}
}

func TestRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	book := newBook("The Fellowship of the Ring", "J.R.R. Tolkien", "9780261102354")
	require.NoError(t, repo.Create(ctx, book))
	assert.NotZero(t, book.ID)

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "The Fellowship of the Ring", found.Title)
	})

	t.Run("by isbn", func(t *testing.T) {
		found, err := repo.FindByISBN(ctx, "9780261102354")
		require.NoError(t, err)
		assert.Equal(t, book.ID, found.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 9999)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := repo.ExistsByID(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByID(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestRepository_DuplicateISBN(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newBook("Dune", "Frank Herbert", "0441013597")))

	err := repo.Create(ctx, newBook("Dune (reprint)", "Frank Herbert", "0441013597"))
	assert.ErrorIs(t, err, entities.ErrDuplicateKey)
}

func TestRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	book := newBook("Dune", "Frank Herbert", "0441013597")
	require.NoError(t, repo.Save(ctx, book))
	require.NotZero(t, book.ID)

	book.Title = "Dune Messiah"
	require.NoError(t, repo.Save(ctx, book))

	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", found.Title)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_DeleteByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	book := newBook("Dune", "Frank Herbert", "0441013597")
	require.NoError(t, repo.Create(ctx, book))
	location := &entities.Location{Name: "Main", Address: "1 High St"}
	require.NoError(t, db.Create(location).Error)
	require.NoError(t, db.Create(&entities.BookCopy{BookID: book.ID, LocationID: location.ID, Quantity: 4}).Error)

	require.NoError(t, repo.DeleteByID(ctx, book.ID))

	var copies int64
	require.NoError(t, db.Model(&entities.BookCopy{}).Count(&copies).Error)
	assert.Zero(t, copies)

	err := repo.DeleteByID(ctx, book.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for _, b := range []*entities.Book{
		newBook("The Two Towers", "J.R.R. Tolkien", "9780261102361"),
		newBook("Dune", "Frank Herbert", "0441013597"),
		newBook("The Hobbit", "J.R.R. Tolkien", "9780261102217"),
		newBook("Children of Dune", "Frank Herbert", "0441104029"),
	} {
		require.NoError(t, repo.Create(ctx, b))
	}

	t.Run("default sort by title", func(t *testing.T) {
		page, err := repo.FindAll(ctx, Filter{}, paging.NewRequest(0, 3))
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Content, 3)
		assert.Equal(t, "Children of Dune", page.Content[0].Title)
		assert.Equal(t, "Dune", page.Content[1].Title)
		assert.Equal(t, "The Hobbit", page.Content[2].Title)
	})

	t.Run("filter by author ignores case", func(t *testing.T) {
		page, err := repo.FindAll(ctx, Filter{Author: "tolkien"}, paging.NewRequest(0, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Len(t, page.Content, 2)
	})

	t.Run("filter by title and explicit sort", func(t *testing.T) {
		req := paging.NewRequest(0, 10, paging.Order{Field: "title", Direction: paging.Desc})
		page, err := repo.FindAll(ctx, Filter{Title: "dune"}, req)
		require.NoError(t, err)
		require.Len(t, page.Content, 2)
		assert.Equal(t, "Dune", page.Content[0].Title)
		assert.Equal(t, "Children of Dune", page.Content[1].Title)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		req := paging.NewRequest(0, 10, paging.Order{Field: "secret"})
		_, err := repo.FindAll(ctx, Filter{}, req)
		assert.ErrorIs(t, err, paging.ErrInvalidSort)
	})
}

func TestRepository_WithTx(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, repo.WithTx(tx).Create(ctx, newBook("Dune", "Frank Herbert", "0441013597")))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
