package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/logger"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

// Admin handlers

// Login - POST /api/admin/login
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.services.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListAllEvents - GET /api/admin/events
func (h *Handlers) ListAllEvents(c *gin.Context) {
	events, err := h.services.Events.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CreateEvent - POST /api/admin/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, &req)
		return
	}

	h.invalidateEventsCache(c)
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent - PUT /api/admin/events/:id
func (h *Handlers) UpdateEvent(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	var req models.SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), eventID, &req)
	if err != nil {
		h.respondError(c, err, &req)
		return
	}

	h.invalidateEventsCache(c)
	c.JSON(http.StatusOK, event)
}

// EventStats - GET /api/admin/events/:id/stats
func (h *Handlers) EventStats(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	stats, err := h.services.Events.Stats(c.Request.Context(), eventID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListOccurrences - GET /api/admin/events/:id/occurrences
func (h *Handlers) ListOccurrences(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	occurrences, err := h.services.Events.ListOccurrences(c.Request.Context(), eventID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"occurrences": occurrences})
}

// CreateOccurrence - POST /api/admin/events/:id/occurrences
func (h *Handlers) CreateOccurrence(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	var req models.CreateOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oc, err := h.services.Events.AddOccurrence(c.Request.Context(), eventID, &req)
	if err != nil {
		h.respondError(c, err, &req)
		return
	}

	h.invalidateEventsCache(c)
	c.JSON(http.StatusCreated, oc)
}

// CancelOccurrence - DELETE /api/admin/events/:id/occurrences/:occurrence_id
func (h *Handlers) CancelOccurrence(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}
	occurrenceID, err := pathID(c, "occurrence_id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	if err := h.services.Events.CancelOccurrence(c.Request.Context(), eventID, occurrenceID); err != nil {
		h.respondError(c, err, nil)
		return
	}

	h.invalidateEventsCache(c)
	c.Status(http.StatusNoContent)
}

func (h *Handlers) invalidateEventsCache(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidatePublishedEvents(c.Request.Context()); err != nil {
		logger.WithContext(c.Request.Context()).Warn("Cache invalidate failed", "error", err)
	}
}
