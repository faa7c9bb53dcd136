package models

import (
	"time"
)

// Pricing modes.
const (
	PricingModePackage       = "PACKAGE"
	PricingModePerOccurrence = "PER_OCCURRENCE"
)

// Event lifecycle statuses.
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusClosed    = "closed"
)

// Occurrence lifecycle statuses.
const (
	OccurrenceStatusScheduled = "scheduled"
	OccurrenceStatusCancelled = "cancelled"
)

// Purchase lifecycle statuses. pending is the only non-terminal state.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusPaid      = "paid"
	PurchaseStatusFailed    = "failed"
	PurchaseStatusExpired   = "expired"
	PurchaseStatusCancelled = "cancelled"
)

// Event is a sellable offering composed of scheduled occurrences.
// Price is in Chilean pesos (minor units, no decimals).
type Event struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	PricingMode     string    `json:"pricing_mode" db:"pricing_mode"`
	Price           int64     `json:"price" db:"price"`
	CapacityDefault *int      `json:"capacity_default" db:"capacity_default"`
	Category        string    `json:"category" db:"category"`
	LocationName    string    `json:"location_name" db:"location_name"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Occurrence is one concrete session of an event. Capacity and price fall
// back to the event defaults when the overrides are NULL.
type Occurrence struct {
	ID               int64     `json:"id" db:"id"`
	EventID          int64     `json:"event_id" db:"event_id"`
	StartAt          time.Time `json:"start_at" db:"start_at"`
	EndAt            time.Time `json:"end_at" db:"end_at"`
	CapacityOverride *int      `json:"capacity_override" db:"capacity_override"`
	PriceOverride    *int64    `json:"price_override" db:"price_override"`
	Status           string    `json:"status" db:"status"`
}

// EffectiveCapacity returns the occurrence capacity override if set, else the
// event default. nil means unbounded.
func (o *Occurrence) EffectiveCapacity(ev *Event) *int {
	if o.CapacityOverride != nil {
		return o.CapacityOverride
	}
	return ev.CapacityDefault
}

// EffectivePrice returns the occurrence price override if set, else the
// event base price.
func (o *Occurrence) EffectivePrice(ev *Event) int64 {
	if o.PriceOverride != nil {
		return *o.PriceOverride
	}
	return ev.Price
}

// Purchase is one checkout attempt for an event.
type Purchase struct {
	ID          int64      `json:"id" db:"id"`
	EventID     int64      `json:"event_id" db:"event_id"`
	BuyerName   string     `json:"buyer_name" db:"buyer_name"`
	BuyerEmail  string     `json:"buyer_email" db:"buyer_email"`
	BuyerPhone  string     `json:"buyer_phone" db:"buyer_phone"`
	TotalAmount int64      `json:"total_amount" db:"total_amount"`
	TbkToken    *string    `json:"-" db:"tbk_token"`
	BuyOrder    *string    `json:"buy_order" db:"buy_order"`
	Status      string     `json:"status" db:"status"`
	PaidAt      *time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	Participants []Participant `json:"participants,omitempty"` // not from the purchases table, filled separately
}

// IsTerminal reports whether the purchase reached a final state. Terminal
// purchases never transition again and gateway callbacks become no-ops.
func (p *Purchase) IsTerminal() bool {
	return p.Status != PurchaseStatusPending
}

// Participant is one enrolled person on a purchase.
type Participant struct {
	ID         int64  `json:"id" db:"id"`
	PurchaseID int64  `json:"purchase_id" db:"purchase_id"`
	Name       string `json:"name" db:"name"`
	Age        int    `json:"age" db:"age"`
}

// Admin is a back-office account.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CapacityBound is a capacity limit that purchase creation re-checks inside
// its transaction. OccurrenceID zero means the bound applies event-wide.
type CapacityBound struct {
	OccurrenceID int64
	Limit        int
}
