package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
)

// Payment handlers

// StartPayment - POST /api/purchases/:id/pay
// Opens the gateway transaction and returns the redirect target.
func (h *Handlers) StartPayment(c *gin.Context) {
	purchaseID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	resp, err := h.services.Payments.Start(c.Request.Context(), purchaseID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// WebpayReturn - GET|POST /api/payments/return
// The gateway sends the buyer back with token_ws in the query string or the
// form body depending on the flow outcome.
func (h *Handlers) WebpayReturn(c *gin.Context) {
	token := c.Query("token_ws")
	if token == "" {
		token = c.PostForm("token_ws")
	}
	if token == "" {
		// The buyer aborted on the gateway page, no token to settle.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token_ws"})
		return
	}

	purchase, err := h.services.Payments.Resolve(c.Request.Context(), token)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase_id": purchase.ID,
		"status":      purchase.Status,
	})
}
