package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/external"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/logger"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/metrics"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

type PaymentService struct {
	events    EventStore
	purchases PurchaseStore
	gateway   PaymentGateway
	publisher Publisher
	returnURL string
}

func NewPaymentService(events EventStore, purchases PurchaseStore, gateway PaymentGateway, publisher Publisher, returnURL string) *PaymentService {
	return &PaymentService{
		events:    events,
		purchases: purchases,
		gateway:   gateway,
		publisher: publisher,
		returnURL: returnURL,
	}
}

// Start opens the gateway transaction for a pending purchase and records the
// correlation token. Nothing is persisted when the gateway call fails, the
// purchase stays pending and Start can be retried.
func (s *PaymentService) Start(ctx context.Context, purchaseID int64) (*models.StartPaymentResponse, error) {
	purchase, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	if purchase == nil {
		return nil, apperrors.ErrNotFound
	}
	if purchase.Status != models.PurchaseStatusPending {
		return nil, apperrors.ErrInvalidState
	}

	buyOrder := fmt.Sprintf("AR-%d", purchase.ID)
	sessionID := strconv.FormatInt(purchase.ID, 10)

	tx, err := s.gateway.Create(ctx, buyOrder, sessionID, purchase.TotalAmount, s.returnURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGateway, err)
	}

	if err := s.purchases.SetGatewayRef(ctx, purchase.ID, tx.Token, buyOrder); err != nil {
		return nil, fmt.Errorf("failed to store gateway reference: %w", err)
	}

	logger.WithContext(ctx).Info("Payment started",
		"purchase_id", purchase.ID,
		"buy_order", buyOrder,
		"amount", purchase.TotalAmount)

	return &models.StartPaymentResponse{
		Token:       tx.Token,
		RedirectURL: tx.URL,
	}, nil
}

// Resolve commits the gateway transaction for a return token and settles the
// purchase. Resolving an already terminal purchase is a no-op that returns
// the purchase as is, so replayed or duplicated callbacks are harmless.
func (s *PaymentService) Resolve(ctx context.Context, token string) (*models.Purchase, error) {
	purchase, err := s.purchases.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	if purchase == nil {
		return nil, apperrors.ErrNotFound
	}
	if purchase.IsTerminal() {
		return purchase, nil
	}

	commit, err := s.gateway.Commit(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGateway, err)
	}

	if strings.EqualFold(commit.Status, external.StatusAuthorized) {
		return s.settlePaid(ctx, purchase, commit)
	}

	return s.settleFailed(ctx, purchase, commit)
}

func (s *PaymentService) settlePaid(ctx context.Context, purchase *models.Purchase, commit *external.CommitTransactionResponse) (*models.Purchase, error) {
	// Resolve the pricing mode before any write: if anything fails from here
	// on, the purchase is still pending and a redelivered callback retries
	// the whole settlement.
	event, err := s.events.GetByID(ctx, purchase.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	attachScheduled := event != nil && event.PricingMode == models.PricingModePackage

	// Package buyers attend every scheduled session; the status flip and the
	// enrollment commit together, a paid purchase always carries its links.
	paidAt := time.Now().UTC()
	if err := s.purchases.MarkPaid(ctx, purchase.ID, purchase.EventID, paidAt, attachScheduled); err != nil {
		return nil, fmt.Errorf("failed to settle purchase: %w", err)
	}
	purchase.Status = models.PurchaseStatusPaid
	purchase.PaidAt = &paidAt

	metrics.PaymentsTotal.WithLabelValues(models.PurchaseStatusPaid).Inc()
	logger.WithContext(ctx).Info("Payment authorized",
		"purchase_id", purchase.ID,
		"authorization_code", commit.AuthorizationCode,
		"amount", commit.Amount)

	s.publishLifecycle(ctx, models.EventPurchasePaid, purchase)

	return purchase, nil
}

func (s *PaymentService) settleFailed(ctx context.Context, purchase *models.Purchase, commit *external.CommitTransactionResponse) (*models.Purchase, error) {
	if err := s.purchases.MarkFailed(ctx, purchase.ID); err != nil {
		return nil, fmt.Errorf("failed to mark purchase failed: %w", err)
	}
	purchase.Status = models.PurchaseStatusFailed

	metrics.PaymentsTotal.WithLabelValues(models.PurchaseStatusFailed).Inc()
	logger.WithContext(ctx).Warn("Payment rejected",
		"purchase_id", purchase.ID,
		"gateway_status", commit.Status,
		"response_code", commit.ResponseCode)

	s.publishLifecycle(ctx, models.EventPurchaseFailed, purchase)

	return purchase, nil
}

// Status builds the post-payment status page for a purchase.
func (s *PaymentService) Status(ctx context.Context, purchaseID int64) (*models.PurchaseStatusResponse, error) {
	purchase, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	if purchase == nil {
		return nil, apperrors.ErrNotFound
	}

	event, err := s.events.GetByID(ctx, purchase.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	participants, err := s.purchases.GetParticipants(ctx, purchase.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	resp := &models.PurchaseStatusResponse{
		PurchaseID:   purchase.ID,
		Status:       purchase.Status,
		TotalAmount:  purchase.TotalAmount,
		BuyerName:    purchase.BuyerName,
		BuyerEmail:   purchase.BuyerEmail,
		PaidAt:       purchase.PaidAt,
		Participants: participants,
	}
	if event != nil {
		resp.EventTitle = event.Title

		occurrences, err := s.purchases.GetOccurrences(ctx, purchase.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get occurrences: %w", err)
		}
		for i := range occurrences {
			resp.Occurrences = append(resp.Occurrences, occurrenceView(event, &occurrences[i], nil))
		}
	}

	return resp, nil
}

func (s *PaymentService) publishLifecycle(ctx context.Context, subject string, purchase *models.Purchase) {
	if err := s.publisher.Publish(subject, models.PurchaseLifecycleEvent{
		PurchaseID:  purchase.ID,
		EventID:     purchase.EventID,
		Status:      purchase.Status,
		TotalAmount: purchase.TotalAmount,
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish purchase lifecycle event",
			"error", err,
			"subject", subject,
			"purchase_id", purchase.ID)
	}
}
