package models

import "time"

// NATS subjects for purchase lifecycle events.
const (
	EventPurchaseCreated  = "purchase.created"
	EventPurchasePaid     = "purchase.paid"
	EventPurchaseFailed   = "purchase.failed"
	EventPurchasesExpired = "purchase.expired"
)

// PurchaseLifecycleEvent is published on every purchase state change.
type PurchaseLifecycleEvent struct {
	PurchaseID   int64     `json:"purchase_id"`
	EventID      int64     `json:"event_id"`
	Status       string    `json:"status"`
	Participants int       `json:"participants"`
	TotalAmount  int64     `json:"total_amount"`
	Timestamp    time.Time `json:"timestamp"`
}

// PurchasesExpiredEvent is published when a lazy expiry sweep flips
// pending purchases to expired.
type PurchasesExpiredEvent struct {
	EventID   int64     `json:"event_id"`
	Count     int64     `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}
