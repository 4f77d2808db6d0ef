package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
)

type stubStats struct {
	stats entities.LibraryStats
	err   error
}

func (s stubStats) Stats(context.Context) (entities.LibraryStats, error) {
	return s.stats, s.err
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func serveHealth(controller *HealthController) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	return w
}

func TestHealthController_Status(t *testing.T) {
	t.Run("reports an empty library as down", func(t *testing.T) {
		s := setupTestServer(t)

		w := s.do(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		response := decode[HealthResponse](t, w)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "test", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.NotEmpty(t, response.Time)
		require.NotNil(t, response.Library)
		assert.Equal(t, StatusDown, response.Library.Status)
		assert.Equal(t, "No books in the library", response.Library.Reason)
	})

	t.Run("reports the book count when books exist", func(t *testing.T) {
		s := setupTestServer(t)
		s.createBook(t, "Dune", "0441013597")

		response := decode[HealthResponse](t, s.do(t, http.MethodGet, "/health", nil))
		require.NotNil(t, response.Library)
		assert.Equal(t, StatusUp, response.Library.Status)
		assert.Equal(t, int64(1), response.Library.BookCount)
	})

	t.Run("returns 503 when the database is unreachable", func(t *testing.T) {
		w := serveHealth(NewHealthController(stubPinger{err: errors.New("connection refused")}, stubStats{}, "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		response := decode[HealthResponse](t, w)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Equal(t, "error: connection refused", response.Checks["database"])
		assert.Nil(t, response.Library)
	})

	t.Run("returns healthy when database is not configured", func(t *testing.T) {
		w := serveHealth(NewHealthController(nil, nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		response := decode[HealthResponse](t, w)
		assert.Equal(t, "not configured", response.Checks["database"])
	})

	t.Run("stats failure is reported as a check", func(t *testing.T) {
		w := serveHealth(NewHealthController(stubPinger{}, stubStats{err: errors.New("boom")}, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "error: boom", decode[HealthResponse](t, w).Checks["library"])
	})
}

func TestInfoController_Info(t *testing.T) {
	s := setupTestServer(t)
	book := s.createBook(t, "Dune", "0441013597")
	location := s.createLocation(t, "Central")
	s.do(t, http.MethodPut, copiesPath(location.ID, book.ID)+"?quantityChange=7", nil)

	w := s.do(t, http.MethodGet, "/info", nil)
	require.Equal(t, http.StatusOK, w.Code)

	info := decode[InfoResponse](t, w)
	assert.Equal(t, "test", info.Version)
	assert.Equal(t, entities.LibraryStats{TotalBooks: 1, TotalLocations: 1, TotalCopies: 7}, info.LibraryStats)
}

func TestInfoController_StatsFailure(t *testing.T) {
	router := gin.New()
	router.GET("/info", NewInfoController(stubStats{err: errors.New("db gone")}, "1", nil).Info)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db gone")
}
