package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/logger"
)

// Public browsing handlers

// ListEvents - GET /api/events
// The published listing is served from the cache when warm, otherwise from
// the database, with the marshalled body written back to the cache.
func (h *Handlers) ListEvents(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		raw, err := h.cache.GetPublishedEvents(ctx)
		if err != nil {
			logger.WithContext(ctx).Warn("Cache lookup failed", "error", err)
		} else if raw != nil {
			c.Data(http.StatusOK, "application/json", raw)
			return
		}
	}

	events, err := h.services.Events.ListPublished(ctx)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	body := gin.H{"events": events}
	if h.cache != nil {
		if raw, err := json.Marshal(body); err == nil {
			if err := h.cache.SetPublishedEvents(ctx, raw); err != nil {
				logger.WithContext(ctx).Warn("Cache store failed", "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, body)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	detail, err := h.services.Events.PublicDetail(c.Request.Context(), eventID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
