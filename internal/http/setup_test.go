package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	auditsvc "github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/bookcopies"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/locations"
	"github.com/mrlokans/library/internal/inventory"
	"github.com/mrlokans/library/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *database.Database
	audit  *auditsvc.Service
}

func setupTestServer(t *testing.T, configure ...func(*RouterConfig)) *testServer {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "library.db")
	db, err := database.NewDatabase(config.Database{
		Driver:   config.DatabaseDriverSQLite,
		Path:     dbPath,
		LogLevel: "silent",
	}, logging.Discard())
	require.NoError(t, err)

	auditService := auditsvc.NewService(audit.NewRepository(db.DB), logging.Discard())
	t.Cleanup(func() {
		auditService.Wait()
		db.Close()
	})

	catalogService := catalog.NewService(
		books.NewRepository(db.DB),
		locations.NewRepository(db.DB),
		bookcopies.NewRepository(db.DB),
		catalog.WithAudit(auditService),
	)
	inventoryService := inventory.NewService(db.Repositories(), db,
		inventory.WithObservers(auditService),
	)

	cfg := RouterConfig{
		Catalog:   catalogService,
		Inventory: inventoryService,
		Database:  db,
		Audit:     auditService,
		Logger:    logging.Discard(),
		Version:   "test",
	}
	for _, fn := range configure {
		fn(&cfg)
	}

	return &testServer{router: NewRouter(cfg), db: db, audit: auditService}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createBook(t *testing.T, title, isbn string) BookResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/books", BookRequest{
		Title:           title,
		Author:          "Frank Herbert",
		ISBN:            isbn,
		PublicationDate: "1965-08-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[BookResponse](t, w)
}

func (s *testServer) createLocation(t *testing.T, name string) LocationResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/locations", LocationRequest{Name: name, Address: "1 Library Sq"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[LocationResponse](t, w)
}
