package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/bookcopies"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/locations"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/inventory"
	"github.com/mrlokans/library/internal/metrics"
	"github.com/mrlokans/library/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ catalog.BookRepository = (*books.Repository)(nil)
var _ inventory.BookStore = (*books.Repository)(nil)

var _ catalog.LocationRepository = (*locations.Repository)(nil)
var _ inventory.LocationStore = (*locations.Repository)(nil)

var _ inventory.CopyStore = (*bookcopies.Repository)(nil)
var _ catalog.CopyCounter = (*bookcopies.Repository)(nil)

var _ inventory.Transactor = (*database.Database)(nil)
var _ http.HealthChecker = (*database.Database)(nil)

// =============================================================================
// Observers
// =============================================================================

var _ inventory.Observer = (*audit.Service)(nil)
var _ inventory.Observer = (*metrics.LibraryMetrics)(nil)
var _ inventory.Observer = inventory.ObserverFunc(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ catalog.AuditLogger = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Services
// =============================================================================

var _ http.CatalogService = (*catalog.Service)(nil)
var _ http.InventoryService = (*inventory.Service)(nil)
