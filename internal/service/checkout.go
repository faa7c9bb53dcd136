package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/logger"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/metrics"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

type CheckoutService struct {
	events      EventStore
	occurrences OccurrenceStore
	purchases   PurchaseStore
	publisher   Publisher
}

func NewCheckoutService(events EventStore, occurrences OccurrenceStore, purchases PurchaseStore, publisher Publisher) *CheckoutService {
	return &CheckoutService{
		events:      events,
		occurrences: occurrences,
		purchases:   purchases,
		publisher:   publisher,
	}
}

// View assembles the checkout page data: the event, its scheduled sessions
// ordered by start time, the unit price and the remaining capacity.
func (s *CheckoutService) View(ctx context.Context, eventID int64) (*models.CheckoutViewResponse, error) {
	event, err := s.checkoutEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.sweepExpired(ctx, event.ID); err != nil {
		return nil, err
	}

	scheduled, err := s.occurrences.ListScheduledByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrences: %w", err)
	}

	view := &models.CheckoutViewResponse{
		Event:     eventSummary(event),
		UnitPrice: event.Price,
	}

	if event.PricingMode == models.PricingModePackage {
		used, err := s.purchases.ActiveParticipantCount(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count participants: %w", err)
		}
		view.CapacityLeft = PackageRemaining(event, scheduled, used)
		for i := range scheduled {
			view.Occurrences = append(view.Occurrences, occurrenceView(event, &scheduled[i], nil))
		}
		return view, nil
	}

	// Per-occurrence events expose remaining seats per session instead of a
	// single event-wide figure.
	for i := range scheduled {
		oc := &scheduled[i]
		used, err := s.purchases.ActiveParticipantCountForOccurrence(ctx, oc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count participants: %w", err)
		}
		remaining := OccurrenceRemaining(event, oc, used)
		view.Occurrences = append(view.Occurrences, occurrenceView(event, oc, remaining))
	}

	return view, nil
}

// Checkout validates the buyer input, checks capacity and creates the
// pending purchase. The returned purchase still has to go through the
// gateway hand-off before any seat is final.
func (s *CheckoutService) Checkout(ctx context.Context, eventID int64, req *models.CheckoutRequest) (*models.Purchase, error) {
	event, err := s.checkoutEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := validateCheckout(event, req); err != nil {
		metrics.CheckoutsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if err := s.sweepExpired(ctx, event.ID); err != nil {
		return nil, err
	}

	participants := make([]models.Participant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = models.Participant{Name: strings.TrimSpace(p.Name), Age: p.Age}
	}

	var total int64
	var bounds []models.CapacityBound
	var occurrenceIDs []int64

	switch event.PricingMode {
	case models.PricingModePackage:
		total, bounds, err = s.preparePackage(ctx, event, len(participants))
	case models.PricingModePerOccurrence:
		total, bounds, occurrenceIDs, err = s.prepareSelection(ctx, event, req.OccurrenceIDs, len(participants))
	default:
		err = apperrors.ErrInvalidState
	}
	if err != nil {
		if err == apperrors.ErrCapacityExceeded {
			metrics.CheckoutsTotal.WithLabelValues("capacity_exceeded").Inc()
		}
		return nil, err
	}

	purchase := &models.Purchase{
		EventID:      event.ID,
		BuyerName:    strings.TrimSpace(req.BuyerName),
		BuyerEmail:   strings.TrimSpace(req.BuyerEmail),
		BuyerPhone:   strings.TrimSpace(req.BuyerPhone),
		TotalAmount:  total,
		Status:       models.PurchaseStatusPending,
		Participants: participants,
	}

	// The store re-checks every bound inside its transaction, closing the
	// window where two concurrent checkouts both saw the last seat free.
	if err := s.purchases.CreatePending(ctx, purchase, occurrenceIDs, bounds); err != nil {
		if err == apperrors.ErrCapacityExceeded {
			metrics.CheckoutsTotal.WithLabelValues("capacity_exceeded").Inc()
		}
		return nil, err
	}

	metrics.CheckoutsTotal.WithLabelValues("created").Inc()

	if err := s.publisher.Publish(models.EventPurchaseCreated, models.PurchaseLifecycleEvent{
		PurchaseID:   purchase.ID,
		EventID:      event.ID,
		Status:       purchase.Status,
		Participants: len(participants),
		TotalAmount:  total,
		Timestamp:    time.Now().UTC(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish purchase created event",
			"error", err,
			"purchase_id", purchase.ID)
	}

	return purchase, nil
}

func (s *CheckoutService) preparePackage(ctx context.Context, event *models.Event, requested int) (int64, []models.CapacityBound, error) {
	scheduled, err := s.occurrences.ListScheduledByEvent(ctx, event.ID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list occurrences: %w", err)
	}

	used, err := s.purchases.ActiveParticipantCount(ctx, event.ID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count participants: %w", err)
	}

	var bounds []models.CapacityBound
	if capacity := PackageCapacity(event, scheduled); capacity != nil {
		if remaining := *capacity - used; requested > remaining {
			return 0, nil, apperrors.ErrCapacityExceeded
		}
		bounds = append(bounds, models.CapacityBound{Limit: *capacity})
	}

	return PackageTotal(event, requested), bounds, nil
}

func (s *CheckoutService) prepareSelection(ctx context.Context, event *models.Event, occurrenceIDs []int64, requested int) (int64, []models.CapacityBound, []int64, error) {
	scheduled, err := s.occurrences.ListScheduledByEvent(ctx, event.ID)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to list occurrences: %w", err)
	}

	byID := make(map[int64]*models.Occurrence, len(scheduled))
	for i := range scheduled {
		byID[scheduled[i].ID] = &scheduled[i]
	}

	var selected []models.Occurrence
	var ids []int64
	for _, id := range occurrenceIDs {
		oc, ok := byID[id]
		if !ok {
			return 0, nil, nil, apperrors.Validation("occurrence_ids",
				fmt.Sprintf("occurrence %d is not a scheduled session of this event", id))
		}
		selected = append(selected, *oc)
		ids = append(ids, id)
	}

	var bounds []models.CapacityBound
	for i := range selected {
		oc := &selected[i]
		capacity := oc.EffectiveCapacity(event)
		if capacity == nil {
			continue
		}
		used, err := s.purchases.ActiveParticipantCountForOccurrence(ctx, oc.ID)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("failed to count participants: %w", err)
		}
		if remaining := *capacity - used; requested > remaining {
			return 0, nil, nil, apperrors.ErrCapacityExceeded
		}
		bounds = append(bounds, models.CapacityBound{OccurrenceID: oc.ID, Limit: *capacity})
	}

	return PerOccurrenceTotal(event, selected, requested), bounds, ids, nil
}

// checkoutEvent guards the entry of every checkout path: the event must
// exist and be published.
func (s *CheckoutService) checkoutEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	if event.Status != models.EventStatusPublished {
		return nil, apperrors.ErrInvalidState
	}

	return event, nil
}

// sweepExpired is the lazy expiry pass that must precede every capacity
// read: pending purchases older than PendingTTL stop reserving seats.
func (s *CheckoutService) sweepExpired(ctx context.Context, eventID int64) error {
	count, err := s.purchases.ExpirePending(ctx, eventID, time.Now().UTC().Add(-PendingTTL))
	if err != nil {
		return fmt.Errorf("failed to expire pending purchases: %w", err)
	}

	if count > 0 {
		metrics.PurchasesExpiredTotal.Add(float64(count))
		logger.WithContext(ctx).Info("Expired pending purchases",
			"event_id", eventID,
			"count", count)

		if err := s.publisher.Publish(models.EventPurchasesExpired, models.PurchasesExpiredEvent{
			EventID:   eventID,
			Count:     count,
			Timestamp: time.Now().UTC(),
		}); err != nil {
			logger.WithContext(ctx).Error("Failed to publish purchases expired event",
				"error", err,
				"event_id", eventID)
		}
	}

	return nil
}

func validateCheckout(event *models.Event, req *models.CheckoutRequest) error {
	v := &apperrors.ValidationError{}

	if strings.TrimSpace(req.BuyerName) == "" {
		v.Add("buyer_name", "buyer name is required")
	}
	email := strings.TrimSpace(req.BuyerEmail)
	if email == "" {
		v.Add("buyer_email", "buyer email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.Add("buyer_email", "buyer email is not a valid address")
	}
	if strings.TrimSpace(req.BuyerPhone) == "" {
		v.Add("buyer_phone", "buyer phone is required")
	}

	if len(req.Participants) == 0 {
		v.Add("participants", "at least one participant is required")
	}
	for i, p := range req.Participants {
		if strings.TrimSpace(p.Name) == "" {
			v.Add(fmt.Sprintf("participant_name_%d", i), "participant name is required")
		}
		if p.Age <= 0 {
			v.Add(fmt.Sprintf("participant_age_%d", i), "participant age must be greater than zero")
		}
	}

	switch event.PricingMode {
	case models.PricingModePackage:
		if len(req.OccurrenceIDs) > 0 {
			v.Add("occurrence_ids", "package events cover every scheduled session, do not select sessions")
		}
	case models.PricingModePerOccurrence:
		if len(req.OccurrenceIDs) == 0 {
			v.Add("occurrence_ids", "select at least one session")
		}
		seen := make(map[int64]bool, len(req.OccurrenceIDs))
		for _, id := range req.OccurrenceIDs {
			if seen[id] {
				v.Add("occurrence_ids", fmt.Sprintf("occurrence %d is selected twice", id))
			}
			seen[id] = true
		}
	}

	if v.HasErrors() {
		return v
	}

	return nil
}

func eventSummary(event *models.Event) models.EventSummary {
	return models.EventSummary{
		ID:           event.ID,
		Title:        event.Title,
		PricingMode:  event.PricingMode,
		Price:        event.Price,
		Category:     event.Category,
		LocationName: event.LocationName,
	}
}

func occurrenceView(event *models.Event, oc *models.Occurrence, remaining *int) models.OccurrenceView {
	return models.OccurrenceView{
		ID:        oc.ID,
		StartAt:   oc.StartAt,
		EndAt:     oc.EndAt,
		Price:     oc.EffectivePrice(event),
		Remaining: remaining,
	}
}
