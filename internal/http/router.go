package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/validation"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if err := validation.RegisterWithGin(); err != nil {
		logger.Warnf("Custom validators not registered: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.CORS)))

	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	if cfg.Metrics != nil {
		router.Use(RequestMetrics(cfg.Metrics))
	}

	// Maintenance mode rejects writes
	if cfg.Maintenance != nil && cfg.Maintenance.IsEnabled() {
		router.Use(cfg.Maintenance.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Catalog, cfg.Version)
	info := NewInfoController(cfg.Catalog, cfg.Version, logger)
	booksController := NewBooksController(cfg.Catalog, logger)
	locationsController := NewLocationsController(cfg.Catalog, logger)
	copiesController := NewBookCopiesController(cfg.Inventory, logger)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/info", info.Info)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Books API endpoints
	api.GET("/books", booksController.ListBooks)
	api.POST("/books", booksController.CreateBook)
	api.GET("/books/:id", booksController.GetBook)
	api.PUT("/books/:id", booksController.UpdateBook)
	api.DELETE("/books/:id", booksController.DeleteBook)

	// Locations API endpoints
	api.GET("/locations", locationsController.ListLocations)
	api.POST("/locations", locationsController.CreateLocation)
	api.GET("/locations/:id", locationsController.GetLocation)
	api.PUT("/locations/:id", locationsController.UpdateLocation)
	api.DELETE("/locations/:id", locationsController.DeleteLocation)

	// Book copies at a location
	api.GET("/locations/:id/book-copies", copiesController.ListBooksAtLocation)
	api.GET("/locations/:id/book-copies/:bookId", copiesController.GetQuantity)
	api.PUT("/locations/:id/book-copies/:bookId", copiesController.UpdateQuantity)

	// Audit log endpoint
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit, logger)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	return router
}

// corsConfig allows every origin unless a list is configured.
func corsConfig(cfg config.CORS) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AddAllowHeaders("Authorization", HeaderRequestID)
	corsCfg.AddExposeHeaders("Content-Length", HeaderRequestID)
	return corsCfg
}
