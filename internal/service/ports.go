package service

import (
	"context"
	"time"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/external"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

// Store interfaces decouple the services from the SQL repositories and keep
// capacity accounting a function of plain query results.

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	ListAll(ctx context.Context) ([]models.Event, error)
	ListPublished(ctx context.Context) ([]models.Event, error)
}

type OccurrenceStore interface {
	Create(ctx context.Context, oc *models.Occurrence) error
	GetByID(ctx context.Context, id int64) (*models.Occurrence, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.Occurrence, error)
	ListScheduledByEvent(ctx context.Context, eventID int64) ([]models.Occurrence, error)
	Cancel(ctx context.Context, id int64) error
}

type PurchaseStore interface {
	CreatePending(ctx context.Context, purchase *models.Purchase, occurrenceIDs []int64, bounds []models.CapacityBound) error
	GetByID(ctx context.Context, id int64) (*models.Purchase, error)
	GetByToken(ctx context.Context, token string) (*models.Purchase, error)
	GetParticipants(ctx context.Context, purchaseID int64) ([]models.Participant, error)
	GetOccurrences(ctx context.Context, purchaseID int64) ([]models.Occurrence, error)
	SetGatewayRef(ctx context.Context, id int64, token, buyOrder string) error
	MarkPaid(ctx context.Context, purchaseID, eventID int64, paidAt time.Time, attachScheduled bool) error
	MarkFailed(ctx context.Context, id int64) error
	ExpirePending(ctx context.Context, eventID int64, cutoff time.Time) (int64, error)
	ActiveParticipantCount(ctx context.Context, eventID int64) (int, error)
	ActiveParticipantCountForOccurrence(ctx context.Context, occurrenceID int64) (int, error)
}

type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// PaymentGateway is the Webpay round trip: create issues a correlation token
// plus a redirect target, commit settles the transaction for a token.
type PaymentGateway interface {
	Create(ctx context.Context, buyOrder, sessionID string, amount int64, returnURL string) (*external.CreateTransactionResponse, error)
	Commit(ctx context.Context, token string) (*external.CommitTransactionResponse, error)
}

// Publisher emits lifecycle events. Publishing is best effort, failures are
// logged and never fail the operation.
type Publisher interface {
	Publish(subject string, data any) error
}
