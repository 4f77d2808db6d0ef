package entrypoint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/logging"
)

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, "/data/library.db", tasksDBPath(config.Database{Driver: config.DatabaseDriverSQLite, Path: "/data/library.db"}))
	assert.Equal(t, config.DefaultDatabasePath, tasksDBPath(config.Database{Driver: config.DatabaseDriverMySQL, DSN: "user@tcp(db)/library"}))
	assert.Equal(t, config.DefaultDatabasePath, tasksDBPath(config.Database{}))
}

func TestMigrate(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database = config.Database{
		Driver:   config.DatabaseDriverSQLite,
		Path:     filepath.Join(t.TempDir(), "library.db"),
		LogLevel: "silent",
	}
	cfg.Log = config.Log{Level: "error"}

	require.NoError(t, Migrate(cfg))

	cfg.Database.Driver = "postgres"
	assert.Error(t, Migrate(cfg))
}

func TestAuditCleanupJobInline(t *testing.T) {
	db, err := database.NewDatabase(config.Database{
		Driver:   config.DatabaseDriverSQLite,
		Path:     filepath.Join(t.TempDir(), "library.db"),
		LogLevel: "silent",
	}, logging.Discard())
	require.NoError(t, err)
	defer db.Close()

	repo := auditrepo.NewRepository(db.DB)
	ctx := context.Background()
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventCreate,
		Action:    "book_create",
		CreatedAt: time.Now().AddDate(0, 0, -90),
	}))
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventCreate,
		Action:    "location_create",
	}))

	job := auditCleanupJob(audit.NewService(repo, nil), nil, 30, logging.Discard())
	require.NoError(t, job(ctx))

	var remaining []entities.AuditEvent
	require.NoError(t, db.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "location_create", remaining[0].Action)
}
