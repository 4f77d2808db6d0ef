package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/database/locations"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

type LocationRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Address string `json:"address" binding:"required,max=255"`
}

type LocationResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func newLocationResponse(location entities.Location) LocationResponse {
	return LocationResponse{
		ID:      location.ID,
		Name:    location.Name,
		Address: location.Address,
	}
}

type LocationsController struct {
	service LocationService
	logger  logrus.FieldLogger
}

func NewLocationsController(service LocationService, logger logrus.FieldLogger) *LocationsController {
	return &LocationsController{
		service: service,
		logger:  logger,
	}
}

// ListLocations returns a page of locations filtered by name and address.
// GET /api/locations
func (controller *LocationsController) ListLocations(c *gin.Context) {
	req, ok := parsePageRequest(c)
	if !ok {
		return
	}

	filter := locations.Filter{Name: c.Query("name"), Address: c.Query("address")}
	page, err := controller.service.ListLocations(c.Request.Context(), filter, req)
	if err != nil {
		respondServiceError(c, controller.logger, err, "ListLocations")
		return
	}
	c.JSON(http.StatusOK, paging.Map(page, newLocationResponse))
}

// GET /api/locations/:id
func (controller *LocationsController) GetLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	location, err := controller.service.GetLocation(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, controller.logger, err, "GetLocation")
		return
	}
	c.JSON(http.StatusOK, newLocationResponse(*location))
}

// POST /api/locations
func (controller *LocationsController) CreateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := controller.service.CreateLocation(c.Request.Context(), &entities.Location{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		respondServiceError(c, controller.logger, err, "CreateLocation")
		return
	}
	c.JSON(http.StatusCreated, newLocationResponse(*created))
}

// PUT /api/locations/:id
func (controller *LocationsController) UpdateLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := controller.service.UpdateLocation(c.Request.Context(), id, &entities.Location{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		respondServiceError(c, controller.logger, err, "UpdateLocation")
		return
	}
	c.JSON(http.StatusOK, newLocationResponse(*updated))
}

// DELETE /api/locations/:id
func (controller *LocationsController) DeleteLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.service.DeleteLocation(c.Request.Context(), id); err != nil {
		respondServiceError(c, controller.logger, err, "DeleteLocation")
		return
	}
	c.Status(http.StatusNoContent)
}
