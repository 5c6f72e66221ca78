package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/logging"
)

// ErrorResponse is the body of every JSON error. Details holds field
// messages for validation failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

const (
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeBadRequest       = "bad_request"
)

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: codeBadRequest})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: codeNotFound})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondInternalError logs err with the request id; clients only see a
// generic message.
func respondInternalError(c *gin.Context, err error, op string) {
	log.Error().Err(err).
		Str("request_id", c.GetString(logging.ContextKeyRequestID)).
		Str("op", op).
		Msg("Request failed")
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// respondCatalogError maps workflow errors: validation to 400, missing
// records to 404, anything else to 500.
func respondCatalogError(c *gin.Context, err error, op string) {
	var invalid *catalog.ValidationError
	var missing *catalog.NotFoundError

	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    codeValidationFailed,
			Details: invalid.Fields,
		})
	case errors.As(err, &missing):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: missing.Error(), Code: codeNotFound})
	case errors.Is(err, catalog.ErrRecordNotFound):
		respondNotFound(c, "resource")
	default:
		respondInternalError(c, err, op)
	}
}

func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted acknowledges work handed to the task queue.
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// parseID accepts positive integers that fit a 32-bit id.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseIDParam reads a path id, answering 400 when it is malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, ok := parseID(c.Param(name))
	if !ok {
		respondBadRequest(c, "invalid "+name)
	}
	return id, ok
}

// queryInt falls back for missing, malformed or negative values.
func queryInt(c *gin.Context, name string, fallback int) int {
	if value, err := strconv.Atoi(c.Query(name)); err == nil && value >= 0 {
		return value
	}
	return fallback
}

func isHTMXRequest(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
