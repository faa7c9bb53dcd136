package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/cache"
	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/logger"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/service"
)

type Handlers struct {
	services *service.Services
	cache    *cache.RedisClient
}

func New(services *service.Services, cache *cache.RedisClient) *Handlers {
	return &Handlers{
		services: services,
		cache:    cache,
	}
}

// respondError maps domain errors to HTTP responses. form, when non-nil, is
// echoed back alongside validation and capacity errors so the client can
// re-render the submitted values.
func (h *Handlers) respondError(c *gin.Context, err error, form any) {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		body := gin.H{"error": "Validation failed", "fields": vErr.Fields}
		if form != nil {
			body["form"] = form
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		body := gin.H{"error": "Not enough remaining capacity"}
		if form != nil {
			body["form"] = form
		}
		c.JSON(http.StatusConflict, body)
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Operation not allowed in the current state"})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, apperrors.ErrGateway):
		logger.WithContext(c.Request.Context()).Error("Gateway error", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
	default:
		logger.WithContext(c.Request.Context()).Error("Internal error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
