package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/external"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

type mockEventStore struct {
	mock.Mock
}

func (m *mockEventStore) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventStore) Update(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *mockEventStore) ListAll(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *mockEventStore) ListPublished(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

type mockOccurrenceStore struct {
	mock.Mock
}

func (m *mockOccurrenceStore) Create(ctx context.Context, oc *models.Occurrence) error {
	args := m.Called(ctx, oc)
	return args.Error(0)
}

func (m *mockOccurrenceStore) GetByID(ctx context.Context, id int64) (*models.Occurrence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Occurrence), args.Error(1)
}

func (m *mockOccurrenceStore) ListByEvent(ctx context.Context, eventID int64) ([]models.Occurrence, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Occurrence), args.Error(1)
}

func (m *mockOccurrenceStore) ListScheduledByEvent(ctx context.Context, eventID int64) ([]models.Occurrence, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Occurrence), args.Error(1)
}

func (m *mockOccurrenceStore) Cancel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPurchaseStore struct {
	mock.Mock
}

func (m *mockPurchaseStore) CreatePending(ctx context.Context, purchase *models.Purchase, occurrenceIDs []int64, bounds []models.CapacityBound) error {
	args := m.Called(ctx, purchase, occurrenceIDs, bounds)
	return args.Error(0)
}

func (m *mockPurchaseStore) GetByID(ctx context.Context, id int64) (*models.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func (m *mockPurchaseStore) GetByToken(ctx context.Context, token string) (*models.Purchase, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func (m *mockPurchaseStore) GetParticipants(ctx context.Context, purchaseID int64) ([]models.Participant, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Participant), args.Error(1)
}

func (m *mockPurchaseStore) GetOccurrences(ctx context.Context, purchaseID int64) ([]models.Occurrence, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Occurrence), args.Error(1)
}

func (m *mockPurchaseStore) SetGatewayRef(ctx context.Context, id int64, token, buyOrder string) error {
	args := m.Called(ctx, id, token, buyOrder)
	return args.Error(0)
}

func (m *mockPurchaseStore) MarkPaid(ctx context.Context, purchaseID, eventID int64, paidAt time.Time, attachScheduled bool) error {
	args := m.Called(ctx, purchaseID, eventID, paidAt, attachScheduled)
	return args.Error(0)
}

func (m *mockPurchaseStore) MarkFailed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPurchaseStore) ExpirePending(ctx context.Context, eventID int64, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, eventID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPurchaseStore) ActiveParticipantCount(ctx context.Context, eventID int64) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *mockPurchaseStore) ActiveParticipantCountForOccurrence(ctx context.Context, occurrenceID int64) (int, error) {
	args := m.Called(ctx, occurrenceID)
	return args.Int(0), args.Error(1)
}

type mockAdminStore struct {
	mock.Mock
}

func (m *mockAdminStore) Create(ctx context.Context, admin *models.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *mockAdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Create(ctx context.Context, buyOrder, sessionID string, amount int64, returnURL string) (*external.CreateTransactionResponse, error) {
	args := m.Called(ctx, buyOrder, sessionID, amount, returnURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*external.CreateTransactionResponse), args.Error(1)
}

func (m *mockGateway) Commit(ctx context.Context, token string) (*external.CommitTransactionResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*external.CommitTransactionResponse), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(subject string, data any) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

// nopPublisher accepts every publish, for tests that do not assert on
// lifecycle events.
type nopPublisher struct{}

func (nopPublisher) Publish(string, any) error { return nil }

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
