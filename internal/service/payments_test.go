package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/external"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

const returnURL = "http://localhost:8080/api/payments/return"

func pendingPurchase() *models.Purchase {
	return &models.Purchase{
		ID:          42,
		EventID:     1,
		TotalAmount: 20000,
		Status:      models.PurchaseStatusPending,
	}
}

func TestStartPayment(t *testing.T) {
	t.Run("opens the transaction and stores the reference", func(t *testing.T) {
		purchases := new(mockPurchaseStore)
		gateway := new(mockGateway)
		svc := NewPaymentService(new(mockEventStore), purchases, gateway, nopPublisher{}, returnURL)

		purchases.On("GetByID", mock.Anything, int64(42)).Return(pendingPurchase(), nil)
		gateway.On("Create", mock.Anything, "AR-42", "42", int64(20000), returnURL).
			Return(&external.CreateTransactionResponse{Token: "tok-1", URL: "https://webpay/init"}, nil)
		purchases.On("SetGatewayRef", mock.Anything, int64(42), "tok-1", "AR-42").Return(nil)

		resp, err := svc.Start(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, "tok-1", resp.Token)
		assert.Equal(t, "https://webpay/init", resp.RedirectURL)
		purchases.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("gateway failure persists nothing", func(t *testing.T) {
		purchases := new(mockPurchaseStore)
		gateway := new(mockGateway)
		svc := NewPaymentService(new(mockEventStore), purchases, gateway, nopPublisher{}, returnURL)

		purchases.On("GetByID", mock.Anything, int64(42)).Return(pendingPurchase(), nil)
		gateway.On("Create", mock.Anything, "AR-42", "42", int64(20000), returnURL).
			Return(nil, errors.New("connection refused"))

		_, err := svc.Start(context.Background(), 42)

		assert.ErrorIs(t, err, apperrors.ErrGateway)
		purchases.AssertNotCalled(t, "SetGatewayRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("only pending purchases can start", func(t *testing.T) {
		purchases := new(mockPurchaseStore)
		svc := NewPaymentService(new(mockEventStore), purchases, new(mockGateway), nopPublisher{}, returnURL)

		paid := pendingPurchase()
		paid.Status = models.PurchaseStatusPaid
		purchases.On("GetByID", mock.Anything, int64(42)).Return(paid, nil)

		_, err := svc.Start(context.Background(), 42)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("unknown purchase", func(t *testing.T) {
		purchases := new(mockPurchaseStore)
		svc := NewPaymentService(new(mockEventStore), purchases, new(mockGateway), nopPublisher{}, returnURL)

		purchases.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		_, err := svc.Start(context.Background(), 99)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestResolveAuthorized(t *testing.T) {
	events := new(mockEventStore)
	purchases := new(mockPurchaseStore)
	gateway := new(mockGateway)
	publisher := new(mockPublisher)
	svc := NewPaymentService(events, purchases, gateway, publisher, returnURL)

	purchases.On("GetByToken", mock.Anything, "tok-1").Return(pendingPurchase(), nil)
	gateway.On("Commit", mock.Anything, "tok-1").
		Return(&external.CommitTransactionResponse{Status: "AUTHORIZED", Amount: 20000}, nil)
	events.On("GetByID", mock.Anything, int64(1)).
		Return(&models.Event{ID: 1, PricingMode: models.PricingModePackage}, nil)
	purchases.On("MarkPaid", mock.Anything, int64(42), int64(1), mock.Anything, true).Return(nil)
	publisher.On("Publish", models.EventPurchasePaid, mock.Anything).Return(nil)

	purchase, err := svc.Resolve(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPaid, purchase.Status)
	assert.NotNil(t, purchase.PaidAt)
	purchases.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestResolveAuthorizedCaseInsensitive(t *testing.T) {
	events := new(mockEventStore)
	purchases := new(mockPurchaseStore)
	gateway := new(mockGateway)
	svc := NewPaymentService(events, purchases, gateway, nopPublisher{}, returnURL)

	purchases.On("GetByToken", mock.Anything, "tok-1").Return(pendingPurchase(), nil)
	gateway.On("Commit", mock.Anything, "tok-1").
		Return(&external.CommitTransactionResponse{Status: "authorized"}, nil)
	events.On("GetByID", mock.Anything, int64(1)).
		Return(&models.Event{ID: 1, PricingMode: models.PricingModePerOccurrence}, nil)
	// Per-occurrence buyers keep their explicit selection, nothing extra is
	// attached on settlement.
	purchases.On("MarkPaid", mock.Anything, int64(42), int64(1), mock.Anything, false).Return(nil)

	purchase, err := svc.Resolve(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPaid, purchase.Status)
	purchases.AssertExpectations(t)
}

func TestResolveRejected(t *testing.T) {
	purchases := new(mockPurchaseStore)
	gateway := new(mockGateway)
	publisher := new(mockPublisher)
	svc := NewPaymentService(new(mockEventStore), purchases, gateway, publisher, returnURL)

	purchases.On("GetByToken", mock.Anything, "tok-1").Return(pendingPurchase(), nil)
	gateway.On("Commit", mock.Anything, "tok-1").
		Return(&external.CommitTransactionResponse{Status: "FAILED", ResponseCode: -1}, nil)
	purchases.On("MarkFailed", mock.Anything, int64(42)).Return(nil)
	publisher.On("Publish", models.EventPurchaseFailed, mock.Anything).Return(nil)

	purchase, err := svc.Resolve(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusFailed, purchase.Status)
	purchases.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveSettlementFailureKeepsPurchasePending(t *testing.T) {
	events := new(mockEventStore)
	purchases := new(mockPurchaseStore)
	gateway := new(mockGateway)
	publisher := new(mockPublisher)
	svc := NewPaymentService(events, purchases, gateway, publisher, returnURL)

	purchases.On("GetByToken", mock.Anything, "tok-1").Return(pendingPurchase(), nil)
	gateway.On("Commit", mock.Anything, "tok-1").
		Return(&external.CommitTransactionResponse{Status: "AUTHORIZED"}, nil)
	events.On("GetByID", mock.Anything, int64(1)).
		Return(&models.Event{ID: 1, PricingMode: models.PricingModePackage}, nil)
	purchases.On("MarkPaid", mock.Anything, int64(42), int64(1), mock.Anything, true).
		Return(errors.New("db down")).Once()
	purchases.On("MarkPaid", mock.Anything, int64(42), int64(1), mock.Anything, true).
		Return(nil).Once()
	publisher.On("Publish", models.EventPurchasePaid, mock.Anything).Return(nil)

	// The settlement write failed, so nothing flipped to paid and the
	// enrollment was not lost half-way.
	_, err := svc.Resolve(context.Background(), "tok-1")
	require.Error(t, err)

	// The purchase is still pending, a redelivered callback settles it in
	// full, enrollment included.
	purchase, err := svc.Resolve(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPaid, purchase.Status)
	assert.NotNil(t, purchase.PaidAt)
	purchases.AssertNumberOfCalls(t, "MarkPaid", 2)
}

func TestResolveTerminalIsIdempotent(t *testing.T) {
	purchases := new(mockPurchaseStore)
	gateway := new(mockGateway)
	svc := NewPaymentService(new(mockEventStore), purchases, gateway, nopPublisher{}, returnURL)

	paid := pendingPurchase()
	paid.Status = models.PurchaseStatusPaid
	purchases.On("GetByToken", mock.Anything, "tok-1").Return(paid, nil)

	purchase, err := svc.Resolve(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPaid, purchase.Status)
	// A replayed callback never hits the gateway again.
	gateway.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestResolveUnknownToken(t *testing.T) {
	purchases := new(mockPurchaseStore)
	svc := NewPaymentService(new(mockEventStore), purchases, new(mockGateway), nopPublisher{}, returnURL)

	purchases.On("GetByToken", mock.Anything, "bogus").Return(nil, nil)

	_, err := svc.Resolve(context.Background(), "bogus")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPurchaseStatusView(t *testing.T) {
	events := new(mockEventStore)
	purchases := new(mockPurchaseStore)
	svc := NewPaymentService(events, purchases, new(mockGateway), nopPublisher{}, returnURL)

	paid := pendingPurchase()
	paid.Status = models.PurchaseStatusPaid
	paid.BuyerName = "Maria Perez"
	purchases.On("GetByID", mock.Anything, int64(42)).Return(paid, nil)
	events.On("GetByID", mock.Anything, int64(1)).
		Return(&models.Event{ID: 1, Title: "Taller de ajedrez"}, nil)
	purchases.On("GetParticipants", mock.Anything, int64(42)).
		Return([]models.Participant{{ID: 1, Name: "Pedro", Age: 9}}, nil)
	purchases.On("GetOccurrences", mock.Anything, int64(42)).
		Return([]models.Occurrence{{ID: 10}}, nil)

	status, err := svc.Status(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "Taller de ajedrez", status.EventTitle)
	assert.Equal(t, models.PurchaseStatusPaid, status.Status)
	require.Len(t, status.Participants, 1)
	assert.Equal(t, "Pedro", status.Participants[0].Name)
	assert.Len(t, status.Occurrences, 1)
}
