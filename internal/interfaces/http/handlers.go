package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/pt-logbook/internal/application/service"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	config   ServerConfig
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, config ServerConfig, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		config:   config,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

// writeError maps a service error to a status code and message
func (h *Handlers) writeError(c *gin.Context, err error) {
	var exists *service.EntryExistsError
	switch {
	case errors.As(err, &exists):
		c.JSON(http.StatusConflict, Response{
			Success: false,
			Error:   err.Error(),
			Data:    gin.H{"entry_id": exists.EntryID},
		})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrProfileRequired),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSummarizerDisabled):
		fail(c, http.StatusServiceUnavailable, err.Error())
	case service.IsClientError(err):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}

// paramID parses a positive integer path parameter
func (h *Handlers) paramID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Error("Invalid path parameter", "name", name, "value", raw)
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// parseDate accepts YYYY-MM-DD. An empty value yields the zero time.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(entity.DateLayout, value, time.UTC)
}
