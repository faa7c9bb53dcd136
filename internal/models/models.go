package models

import (
	"time"
)

// ParticipantInput - one participant row on the checkout form
type ParticipantInput struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// CheckoutRequest - buyer and participant data for one checkout attempt.
// OccurrenceIDs selects sessions for PER_OCCURRENCE events and must be
// empty for PACKAGE events.
type CheckoutRequest struct {
	BuyerName     string             `json:"buyer_name"`
	BuyerEmail    string             `json:"buyer_email"`
	BuyerPhone    string             `json:"buyer_phone"`
	Participants  []ParticipantInput `json:"participants"`
	OccurrenceIDs []int64            `json:"occurrence_ids,omitempty"`
}

// CheckoutResponse - created pending purchase
type CheckoutResponse struct {
	PurchaseID  int64 `json:"purchase_id"`
	TotalAmount int64 `json:"total_amount"`
}

// OccurrenceView - one session as shown on public/checkout pages
type OccurrenceView struct {
	ID        int64     `json:"id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Price     int64     `json:"price"`
	Remaining *int      `json:"remaining,omitempty"`
}

// EventSummary - event as shown on public listings
type EventSummary struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	PricingMode  string `json:"pricing_mode"`
	Price        int64  `json:"price"`
	Category     string `json:"category"`
	LocationName string `json:"location_name"`
}

// CheckoutViewResponse - everything the checkout page needs, fully computed
type CheckoutViewResponse struct {
	Event        EventSummary     `json:"event"`
	Occurrences  []OccurrenceView `json:"occurrences"`
	UnitPrice    int64            `json:"unit_price"`
	CapacityLeft *int             `json:"capacity_left"` // null when unbounded
}

// EventDetailResponse - public event page
type EventDetailResponse struct {
	Event       EventSummary     `json:"event"`
	Occurrences []OccurrenceView `json:"occurrences"`
}

// StartPaymentResponse - gateway redirect target for a pending purchase
type StartPaymentResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// PurchaseStatusResponse - post-payment status page data
type PurchaseStatusResponse struct {
	PurchaseID   int64            `json:"purchase_id"`
	EventTitle   string           `json:"event_title"`
	Status       string           `json:"status"`
	TotalAmount  int64            `json:"total_amount"`
	BuyerName    string           `json:"buyer_name"`
	BuyerEmail   string           `json:"buyer_email"`
	PaidAt       *time.Time       `json:"paid_at,omitempty"`
	Participants []Participant    `json:"participants,omitempty"`
	Occurrences  []OccurrenceView `json:"occurrences,omitempty"`
}

// LoginRequest - admin credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse - signed session token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SaveEventRequest - admin create/update event form
type SaveEventRequest struct {
	Title           string `json:"title"`
	PricingMode     string `json:"pricing_mode"`
	Price           int64  `json:"price"`
	CapacityDefault *int   `json:"capacity_default"`
	Category        string `json:"category"`
	LocationName    string `json:"location_name"`
	Status          string `json:"status"`
}

// CreateOccurrenceRequest - admin new session form
type CreateOccurrenceRequest struct {
	StartAt          time.Time `json:"start_at" binding:"required"`
	EndAt            time.Time `json:"end_at" binding:"required"`
	CapacityOverride *int      `json:"capacity_override"`
	PriceOverride    *int64    `json:"price_override"`
}

// OccurrenceStats - admin per-session capacity figures
type OccurrenceStats struct {
	Occurrence Occurrence `json:"occurrence"`
	Capacity   *int       `json:"capacity"`
	Used       int        `json:"used"`
	Remaining  *int       `json:"remaining"`
}

// EventStatsResponse - admin event detail with capacity accounting
type EventStatsResponse struct {
	Event       Event             `json:"event"`
	Used        int               `json:"used"`
	Remaining   *int              `json:"remaining"`
	Occurrences []OccurrenceStats `json:"occurrences"`
}
