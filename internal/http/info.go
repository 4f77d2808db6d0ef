package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/entities"
)

type InfoResponse struct {
	Version      string                `json:"version"`
	LibraryStats entities.LibraryStats `json:"library_stats"`
}

type InfoController struct {
	stats   StatsProvider
	version string
	logger  logrus.FieldLogger
}

func NewInfoController(stats StatsProvider, version string, logger logrus.FieldLogger) *InfoController {
	return &InfoController{stats: stats, version: version, logger: logger}
}

// GET /info
func (i *InfoController) Info(c *gin.Context) {
	stats, err := i.stats.Stats(c.Request.Context())
	if err != nil {
		respondInternalError(c, i.logger, err, "Info")
		return
	}
	c.JSON(http.StatusOK, InfoResponse{Version: i.version, LibraryStats: stats})
}
