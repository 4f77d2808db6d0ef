package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BookCopiesController exposes the stock of books at a location. Location
// routes share the :id wildcard, so the location is always read from it.
type BookCopiesController struct {
	service InventoryService
	logger  logrus.FieldLogger
}

func NewBookCopiesController(service InventoryService, logger logrus.FieldLogger) *BookCopiesController {
	return &BookCopiesController{
		service: service,
		logger:  logger,
	}
}

// UpdateQuantity adds quantityChange copies (negative removes) and
// answers with the new quantity.
// PUT /api/locations/:id/book-copies/:bookId?quantityChange=N
func (controller *BookCopiesController) UpdateQuantity(c *gin.Context) {
	locationID, bookID, ok := parseCopyParams(c)
	if !ok {
		return
	}
	delta, ok := parseIntQuery(c, "quantityChange")
	if !ok {
		return
	}

	quantity, err := controller.service.UpdateQuantity(c.Request.Context(), locationID, bookID, delta)
	if err != nil {
		respondServiceError(c, controller.logger, err, "UpdateQuantity")
		return
	}
	c.JSON(http.StatusOK, quantity)
}

// GET /api/locations/:id/book-copies/:bookId
func (controller *BookCopiesController) GetQuantity(c *gin.Context) {
	locationID, bookID, ok := parseCopyParams(c)
	if !ok {
		return
	}

	quantity, err := controller.service.GetQuantity(c.Request.Context(), locationID, bookID)
	if err != nil {
		respondServiceError(c, controller.logger, err, "GetQuantity")
		return
	}
	c.JSON(http.StatusOK, quantity)
}

// GET /api/locations/:id/book-copies
func (controller *BookCopiesController) ListBooksAtLocation(c *gin.Context) {
	locationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	req, ok := parsePageRequest(c)
	if !ok {
		return
	}

	page, err := controller.service.GetBooksAtLocation(c.Request.Context(), locationID, req)
	if err != nil {
		respondServiceError(c, controller.logger, err, "ListBooksAtLocation")
		return
	}
	c.JSON(http.StatusOK, page)
}

func parseCopyParams(c *gin.Context) (locationID, bookID uint, ok bool) {
	if locationID, ok = parseIDParam(c, "id"); !ok {
		return 0, 0, false
	}
	if bookID, ok = parseIDParam(c, "bookId"); !ok {
		return 0, 0, false
	}
	return locationID, bookID, true
}
