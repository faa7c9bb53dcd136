package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

const maxTitleLength = 120

type EventService struct {
	events      EventStore
	occurrences OccurrenceStore
	purchases   PurchaseStore
}

func NewEventService(events EventStore, occurrences OccurrenceStore, purchases PurchaseStore) *EventService {
	return &EventService{
		events:      events,
		occurrences: occurrences,
		purchases:   purchases,
	}
}

func (s *EventService) Create(ctx context.Context, req *models.SaveEventRequest) (*models.Event, error) {
	if err := validateSaveEvent(req); err != nil {
		return nil, err
	}

	event := eventFromRequest(req)
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

func (s *EventService) Update(ctx context.Context, id int64, req *models.SaveEventRequest) (*models.Event, error) {
	existing, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if existing == nil {
		return nil, apperrors.ErrNotFound
	}

	if err := validateSaveEvent(req); err != nil {
		return nil, err
	}

	event := eventFromRequest(req)
	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt
	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

func (s *EventService) AddOccurrence(ctx context.Context, eventID int64, req *models.CreateOccurrenceRequest) (*models.Occurrence, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}

	v := &apperrors.ValidationError{}
	if req.StartAt.IsZero() {
		v.Add("start_at", "start time is required")
	}
	if req.EndAt.IsZero() {
		v.Add("end_at", "end time is required")
	}
	if !req.StartAt.IsZero() && !req.EndAt.IsZero() && !req.EndAt.After(req.StartAt) {
		v.Add("end_at", "end time must be after the start time")
	}
	if req.CapacityOverride != nil && *req.CapacityOverride < 1 {
		v.Add("capacity_override", "capacity override must be at least 1")
	}
	if req.PriceOverride != nil && *req.PriceOverride < 0 {
		v.Add("price_override", "price override must not be negative")
	}
	if v.HasErrors() {
		return nil, v
	}

	oc := &models.Occurrence{
		EventID:          event.ID,
		StartAt:          req.StartAt.UTC(),
		EndAt:            req.EndAt.UTC(),
		CapacityOverride: req.CapacityOverride,
		PriceOverride:    req.PriceOverride,
		Status:           models.OccurrenceStatusScheduled,
	}
	if err := s.occurrences.Create(ctx, oc); err != nil {
		return nil, err
	}

	return oc, nil
}

// ListOccurrences returns every session of an event, cancelled included,
// for the admin detail page.
func (s *EventService) ListOccurrences(ctx context.Context, eventID int64) ([]models.Occurrence, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}

	return s.occurrences.ListByEvent(ctx, eventID)
}

// CancelOccurrence takes one session out of sale. Existing links from paid
// purchases are kept for the record.
func (s *EventService) CancelOccurrence(ctx context.Context, eventID, occurrenceID int64) error {
	oc, err := s.occurrences.GetByID(ctx, occurrenceID)
	if err != nil {
		return fmt.Errorf("failed to get occurrence: %w", err)
	}
	if oc == nil || oc.EventID != eventID {
		return apperrors.ErrNotFound
	}
	if oc.Status != models.OccurrenceStatusScheduled {
		return apperrors.ErrInvalidState
	}

	if err := s.occurrences.Cancel(ctx, occurrenceID); err != nil {
		return fmt.Errorf("failed to cancel occurrence: %w", err)
	}

	return nil
}

// Stats builds the admin capacity view for an event. It runs the expiry
// sweep first so the figures never include stale pending holds.
func (s *EventService) Stats(ctx context.Context, eventID int64) (*models.EventStatsResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}

	if _, err := s.purchases.ExpirePending(ctx, event.ID, time.Now().UTC().Add(-PendingTTL)); err != nil {
		return nil, fmt.Errorf("failed to expire pending purchases: %w", err)
	}

	scheduled, err := s.occurrences.ListScheduledByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrences: %w", err)
	}

	used, err := s.purchases.ActiveParticipantCount(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}

	resp := &models.EventStatsResponse{
		Event: *event,
		Used:  used,
	}

	if event.PricingMode == models.PricingModePackage {
		resp.Remaining = PackageRemaining(event, scheduled, used)
		return resp, nil
	}

	for i := range scheduled {
		oc := &scheduled[i]
		ocUsed, err := s.purchases.ActiveParticipantCountForOccurrence(ctx, oc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count participants: %w", err)
		}
		resp.Occurrences = append(resp.Occurrences, models.OccurrenceStats{
			Occurrence: *oc,
			Capacity:   oc.EffectiveCapacity(event),
			Used:       ocUsed,
			Remaining:  OccurrenceRemaining(event, oc, ocUsed),
		})
	}

	return resp, nil
}

func (s *EventService) ListAll(ctx context.Context) ([]models.Event, error) {
	return s.events.ListAll(ctx)
}

func (s *EventService) ListPublished(ctx context.Context) ([]models.Event, error) {
	return s.events.ListPublished(ctx)
}

// PublicDetail is the public event page: the published event and its
// scheduled sessions with effective prices.
func (s *EventService) PublicDetail(ctx context.Context, eventID int64) (*models.EventDetailResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil || event.Status != models.EventStatusPublished {
		return nil, apperrors.ErrNotFound
	}

	scheduled, err := s.occurrences.ListScheduledByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrences: %w", err)
	}

	resp := &models.EventDetailResponse{Event: eventSummary(event)}
	for i := range scheduled {
		resp.Occurrences = append(resp.Occurrences, occurrenceView(event, &scheduled[i], nil))
	}

	return resp, nil
}

func validateSaveEvent(req *models.SaveEventRequest) error {
	v := &apperrors.ValidationError{}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		v.Add("title", "title is required")
	} else if len(title) > maxTitleLength {
		v.Add("title", fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}

	switch req.PricingMode {
	case models.PricingModePackage:
		// A package sells one capacity pool; it cannot be left open-ended.
		if req.CapacityDefault == nil {
			v.Add("capacity_default", "capacity is required for package events")
		}
	case models.PricingModePerOccurrence:
	default:
		v.Add("pricing_mode", "pricing mode must be PACKAGE or PER_OCCURRENCE")
	}

	if req.Price < 0 {
		v.Add("price", "price must not be negative")
	}

	if strings.TrimSpace(req.LocationName) == "" {
		v.Add("location_name", "location is required")
	}

	switch req.Status {
	case models.EventStatusDraft, models.EventStatusPublished, models.EventStatusClosed:
	default:
		v.Add("status", "status must be draft, published or closed")
	}

	if req.CapacityDefault != nil && *req.CapacityDefault < 1 {
		v.Add("capacity_default", "capacity must be at least 1")
	}

	if v.HasErrors() {
		return v
	}

	return nil
}

func eventFromRequest(req *models.SaveEventRequest) *models.Event {
	return &models.Event{
		Title:           strings.TrimSpace(req.Title),
		PricingMode:     req.PricingMode,
		Price:           req.Price,
		CapacityDefault: req.CapacityDefault,
		Category:        strings.TrimSpace(req.Category),
		LocationName:    strings.TrimSpace(req.LocationName),
		Status:          req.Status,
	}
}
