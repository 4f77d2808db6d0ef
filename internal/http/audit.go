package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

type AuditController struct {
	reader AuditReader
	logger logrus.FieldLogger
}

func NewAuditController(reader AuditReader, logger logrus.FieldLogger) *AuditController {
	return &AuditController{
		reader: reader,
		logger: logger,
	}
}

// GetAuditEvents returns paginated audit events as JSON, newest first.
// GET /api/audit?type=&entity_type=&entity_id=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	req, ok := parsePageRequest(c)
	if !ok {
		return
	}

	filter := audit.Filter{
		EventType:  entities.AuditEventType(c.Query("type")),
		EntityType: c.Query("entity_type"),
	}
	if raw := c.Query("entity_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid entity_id")
			return
		}
		filter.EntityID = uint(id)
	}

	page, err := ac.reader.GetEvents(c.Request.Context(), filter, req)
	if err != nil {
		respondServiceError(c, ac.logger, err, "GetAuditEvents")
		return
	}
	c.JSON(http.StatusOK, page)
}
