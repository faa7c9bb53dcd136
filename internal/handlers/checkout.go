package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

// Checkout handlers

// CheckoutView - GET /api/events/:id/checkout
func (h *Handlers) CheckoutView(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	view, err := h.services.Checkout.View(c.Request.Context(), eventID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Checkout - POST /api/events/:id/checkout
// Creates the pending purchase. Validation and capacity errors echo the
// submitted form back so the client re-renders it with inline messages.
func (h *Handlers) Checkout(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase, err := h.services.Checkout.Checkout(c.Request.Context(), eventID, &req)
	if err != nil {
		h.respondError(c, err, &req)
		return
	}

	c.JSON(http.StatusCreated, models.CheckoutResponse{
		PurchaseID:  purchase.ID,
		TotalAmount: purchase.TotalAmount,
	})
}

// PurchaseStatus - GET /api/purchases/:id
func (h *Handlers) PurchaseStatus(c *gin.Context) {
	purchaseID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, apperrors.ErrNotFound, nil)
		return
	}

	status, err := h.services.Payments.Status(c.Request.Context(), purchaseID)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, status)
}
