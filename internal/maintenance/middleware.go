package maintenance

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware rejects write operations while the library is in maintenance
// mode. Read-only methods are always allowed.
type Middleware struct {
	enabled bool
}

func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

// IsEnabled returns whether maintenance mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that answers 503 to every write request.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.Header("Retry-After", "120")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":       "The library is in maintenance mode; changes are temporarily disabled",
			"code":        "maintenance",
			"maintenance": true,
		})
	}
}
