package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database/bookcopies"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/locations"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

type auditCall struct {
	action     string
	entityType string
	entityID   uint
	name       string
}

type auditRecorder struct {
	mu    sync.Mutex
	calls []auditCall
}

func (a *auditRecorder) record(action, entityType string, id uint, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, auditCall{action, entityType, id, name})
}

func (a *auditRecorder) LogCreate(entityType string, id uint, name string) {
	a.record("create", entityType, id, name)
}

func (a *auditRecorder) LogUpdate(entityType string, id uint, name string) {
	a.record("update", entityType, id, name)
}

func (a *auditRecorder) LogDelete(entityType string, id uint, name string) {
	a.record("delete", entityType, id, name)
}

func setupTestService(t *testing.T) (*Service, *auditRecorder, *gorm.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test_catalog.db")
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}, &entities.Location{}, &entities.BookCopy{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	})

	audit := &auditRecorder{}
	svc := NewService(
		books.NewRepository(db),
		locations.NewRepository(db),
		bookcopies.NewRepository(db),
		WithAudit(audit),
	)
	return svc, audit, db
}

func dune() *entities.Book {
	return &entities.Book{
		Title:           "Dune",
		Author:          "Frank Herbert",
		ISBN:            "0441013597",
		PublicationDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestService_CreateBook(t *testing.T) {
	svc, audit, _ := setupTestService(t)
	ctx := context.Background()

	input := dune()
	input.ID = 42
	created, err := svc.CreateBook(ctx, input)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEqual(t, uint(42), created.ID)

	_, err = svc.CreateBook(ctx, dune())
	var exists *entities.BookAlreadyExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "0441013597", exists.ISBN)
	assert.ErrorIs(t, err, entities.ErrConflict)

	require.Len(t, audit.calls, 1)
	assert.Equal(t, auditCall{"create", "book", created.ID, "Dune"}, audit.calls[0])
}

func TestService_GetBook(t *testing.T) {
	svc, _, _ := setupTestService(t)

	_, err := svc.GetBook(context.Background(), 404)
	var notFound *entities.BookNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint(404), notFound.ID)
}

func TestService_UpdateBook(t *testing.T) {
	svc, audit, _ := setupTestService(t)
	ctx := context.Background()

	first, err := svc.CreateBook(ctx, dune())
	require.NoError(t, err)
	second := dune()
	second.Title = "Dune Messiah"
	second.ISBN = "0593098234"
	second, err = svc.CreateBook(ctx, second)
	require.NoError(t, err)

	t.Run("updates fields", func(t *testing.T) {
		input := dune()
		input.Title = "Dune (40th anniversary)"
		updated, err := svc.UpdateBook(ctx, first.ID, input)
		require.NoError(t, err)
		assert.Equal(t, first.ID, updated.ID)
		assert.Equal(t, "Dune (40th anniversary)", updated.Title)

		reloaded, err := svc.GetBook(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune (40th anniversary)", reloaded.Title)
		assert.False(t, reloaded.CreatedAt.IsZero())
	})

	t.Run("isbn taken by another book", func(t *testing.T) {
		input := dune()
		input.ISBN = second.ISBN
		_, err := svc.UpdateBook(ctx, first.ID, input)
		var exists *entities.BookAlreadyExistsError
		assert.ErrorAs(t, err, &exists)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := svc.UpdateBook(ctx, 999, dune())
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	assert.Equal(t, "update", audit.calls[len(audit.calls)-1].action)
}

func TestService_DeleteBook(t *testing.T) {
	svc, audit, db := setupTestService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, dune())
	require.NoError(t, err)
	location, err := svc.CreateLocation(ctx, &entities.Location{Name: "Central", Address: "1 Library Sq"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.BookCopy{BookID: book.ID, LocationID: location.ID, Quantity: 3}).Error)

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	var copies int64
	require.NoError(t, db.Model(&entities.BookCopy{}).Count(&copies).Error)
	assert.Zero(t, copies)

	err = svc.DeleteBook(ctx, book.ID)
	var notFound *entities.BookNotFoundError
	assert.ErrorAs(t, err, &notFound)

	last := audit.calls[len(audit.calls)-1]
	assert.Equal(t, auditCall{"delete", "book", book.ID, "Dune"}, last)
}

func TestService_Locations(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	central, err := svc.CreateLocation(ctx, &entities.Location{Name: "Central", Address: "1 Library Sq"})
	require.NoError(t, err)
	annex, err := svc.CreateLocation(ctx, &entities.Location{Name: "Annex", Address: "2 Side St"})
	require.NoError(t, err)

	_, err = svc.CreateLocation(ctx, &entities.Location{Name: "Central", Address: "elsewhere"})
	var exists *entities.LocationAlreadyExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "Central", exists.Name)

	_, err = svc.UpdateLocation(ctx, annex.ID, &entities.Location{Name: "Central", Address: "2 Side St"})
	assert.ErrorAs(t, err, &exists)

	updated, err := svc.UpdateLocation(ctx, central.ID, &entities.Location{Name: "Central", Address: "3 New Rd"})
	require.NoError(t, err)
	assert.Equal(t, "3 New Rd", updated.Address)

	page, err := svc.ListLocations(ctx, locations.Filter{}, paging.NewRequest(0, 20))
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Annex", page.Content[0].Name)

	require.NoError(t, svc.DeleteLocation(ctx, annex.ID))
	_, err = svc.GetLocation(ctx, annex.ID)
	var notFound *entities.LocationNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.ErrorAs(t, svc.DeleteLocation(ctx, annex.ID), &notFound)
}

func TestService_ListBooks(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, dune())
	require.NoError(t, err)
	hobbit := &entities.Book{Title: "The Hobbit", Author: "J.R.R. Tolkien", ISBN: "9780261102217", PublicationDate: time.Date(1937, 9, 21, 0, 0, 0, 0, time.UTC)}
	_, err = svc.CreateBook(ctx, hobbit)
	require.NoError(t, err)

	page, err := svc.ListBooks(ctx, books.Filter{Author: "TOLKIEN"}, paging.NewRequest(0, 20))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "The Hobbit", page.Content[0].Title)
}

func TestService_Stats(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.LibraryStats{}, stats)

	book, err := svc.CreateBook(ctx, dune())
	require.NoError(t, err)
	location, err := svc.CreateLocation(ctx, &entities.Location{Name: "Central", Address: "1 Library Sq"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.BookCopy{BookID: book.ID, LocationID: location.ID, Quantity: 6}).Error)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.LibraryStats{TotalBooks: 1, TotalLocations: 1, TotalCopies: 6}, stats)
}
