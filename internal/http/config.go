package http

import (
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/maintenance"
	"github.com/mrlokans/library/internal/metrics"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog   CatalogService
	Inventory InventoryService
	Database  HealthChecker

	// Audit trail (optional)
	Audit AuditReader

	// Middleware
	Logger      logrus.FieldLogger
	Metrics     *metrics.HTTPMetrics
	Maintenance *maintenance.Middleware
	CORS        config.CORS

	// ServiceName names the otelgin tracer; empty disables HTTP tracing.
	ServiceName string

	// Application info
	Version string
}
