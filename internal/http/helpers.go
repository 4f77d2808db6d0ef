package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/paging"
	"github.com/mrlokans/library/internal/validation"
)

// Machine-readable error codes.
const (
	CodeBadRequest = "bad_request"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeInternal   = "internal"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeBadRequest})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, logger logrus.FieldLogger, err error, funcName string) {
	if logger == nil {
		logger = logging.Discard()
	}
	logging.LogError(logger.WithField("request_id", c.GetString(ContextKeyRequestID)), "http", funcName, nil, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondServiceError maps a service error onto its HTTP status.
func respondServiceError(c *gin.Context, logger logrus.FieldLogger, err error, funcName string) {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeNotFound})
	case errors.Is(err, entities.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: CodeConflict})
	case errors.Is(err, paging.ErrInvalidSort), errors.Is(err, entities.ErrInvalidArgument):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, logger, err, funcName)
	}
}

// respondBindError reports a failed request binding, with per-field
// details when the body failed validation.
func respondBindError(c *gin.Context, err error) {
	if fields := validation.FieldErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    CodeBadRequest,
			Details: fields,
		})
		return
	}
	respondBadRequest(c, "invalid request body")
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseIntQuery extracts a required signed integer from the query string.
func parseIntQuery(c *gin.Context, paramName string) (int, bool) {
	raw, ok := c.GetQuery(paramName)
	if !ok || raw == "" {
		respondBadRequest(c, paramName+" is required")
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return n, true
}

// parsePageRequest reads page, size and the repeatable sort parameter.
func parsePageRequest(c *gin.Context) (paging.Request, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		respondBadRequest(c, "invalid page")
		return paging.Request{}, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(paging.DefaultSize)))
	if err != nil {
		respondBadRequest(c, "invalid size")
		return paging.Request{}, false
	}

	var orders []paging.Order
	for _, raw := range c.QueryArray("sort") {
		order, err := paging.ParseOrder(raw)
		if err != nil {
			respondBadRequest(c, err.Error())
			return paging.Request{}, false
		}
		orders = append(orders, order)
	}
	return paging.NewRequest(page, size, orders...), true
}
