package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

func publishedPackageEvent() *models.Event {
	return &models.Event{
		ID:              1,
		Title:           "Taller de ajedrez",
		PricingMode:     models.PricingModePackage,
		Price:           10000,
		CapacityDefault: intPtr(5),
		Status:          models.EventStatusPublished,
	}
}

func validRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		BuyerName:  "Maria Perez",
		BuyerEmail: "maria@example.com",
		BuyerPhone: "+56911111111",
		Participants: []models.ParticipantInput{
			{Name: "Pedro", Age: 9},
		},
	}
}

func TestCheckoutPackageSuccess(t *testing.T) {
	events := new(mockEventStore)
	occurrences := new(mockOccurrenceStore)
	purchases := new(mockPurchaseStore)
	publisher := new(mockPublisher)
	svc := NewCheckoutService(events, occurrences, purchases, publisher)

	event := publishedPackageEvent()
	scheduled := []models.Occurrence{{ID: 10, EventID: 1}, {ID: 11, EventID: 1}}

	events.On("GetByID", mock.Anything, int64(1)).Return(event, nil)
	purchases.On("ExpirePending", mock.Anything, int64(1), mock.Anything).Return(int64(0), nil)
	occurrences.On("ListScheduledByEvent", mock.Anything, int64(1)).Return(scheduled, nil)
	purchases.On("ActiveParticipantCount", mock.Anything, int64(1)).Return(3, nil)
	purchases.On("CreatePending", mock.Anything, mock.Anything, []int64(nil), []models.CapacityBound{{Limit: 5}}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Purchase).ID = 42
		}).Return(nil)
	publisher.On("Publish", models.EventPurchaseCreated, mock.Anything).Return(nil)

	purchase, err := svc.Checkout(context.Background(), 1, validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(42), purchase.ID)
	assert.Equal(t, models.PurchaseStatusPending, purchase.Status)
	assert.Equal(t, int64(10000), purchase.TotalAmount)
	require.Len(t, purchase.Participants, 1)
	assert.Equal(t, "Pedro", purchase.Participants[0].Name)
	purchases.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCheckoutPackageCapacityExceeded(t *testing.T) {
	events := new(mockEventStore)
	occurrences := new(mockOccurrenceStore)
	purchases := new(mockPurchaseStore)
	svc := NewCheckoutService(events, occurrences, purchases, nopPublisher{})

	event := publishedPackageEvent()
	scheduled := []models.Occurrence{{ID: 10, EventID: 1}}

	events.On("GetByID", mock.Anything, int64(1)).Return(event, nil)
	purchases.On("ExpirePending", mock.Anything, int64(1), mock.Anything).Return(int64(0), nil)
	occurrences.On("ListScheduledByEvent", mock.Anything, int64(1)).Return(scheduled, nil)
	purchases.On("ActiveParticipantCount", mock.Anything, int64(1)).Return(4, nil)

	// Two participants against a single remaining seat.
	req := validRequest()
	req.Participants = append(req.Participants, models.ParticipantInput{Name: "Ana", Age: 11})

	_, err := svc.Checkout(context.Background(), 1, req)

	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
	purchases.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutValidation(t *testing.T) {
	events := new(mockEventStore)
	svc := NewCheckoutService(events, new(mockOccurrenceStore), new(mockPurchaseStore), nopPublisher{})

	events.On("GetByID", mock.Anything, int64(1)).Return(publishedPackageEvent(), nil)

	req := &models.CheckoutRequest{
		BuyerEmail: "not-an-email",
		Participants: []models.ParticipantInput{
			{Name: "", Age: 0},
		},
	}

	_, err := svc.Checkout(context.Background(), 1, req)

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)

	fields := make(map[string]bool)
	for _, f := range vErr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["buyer_name"])
	assert.True(t, fields["buyer_email"])
	assert.True(t, fields["buyer_phone"])
	assert.True(t, fields["participant_name_0"])
	assert.True(t, fields["participant_age_0"])
}

func TestCheckoutEventGuards(t *testing.T) {
	t.Run("unknown event", func(t *testing.T) {
		events := new(mockEventStore)
		svc := NewCheckoutService(events, new(mockOccurrenceStore), new(mockPurchaseStore), nopPublisher{})
		events.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		_, err := svc.Checkout(context.Background(), 99, validRequest())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("draft event", func(t *testing.T) {
		events := new(mockEventStore)
		svc := NewCheckoutService(events, new(mockOccurrenceStore), new(mockPurchaseStore), nopPublisher{})
		draft := publishedPackageEvent()
		draft.Status = models.EventStatusDraft
		events.On("GetByID", mock.Anything, int64(1)).Return(draft, nil)

		_, err := svc.Checkout(context.Background(), 1, validRequest())
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestCheckoutSweepCutoff(t *testing.T) {
	events := new(mockEventStore)
	occurrences := new(mockOccurrenceStore)
	purchases := new(mockPurchaseStore)
	publisher := new(mockPublisher)
	svc := NewCheckoutService(events, occurrences, purchases, publisher)

	event := publishedPackageEvent()
	events.On("GetByID", mock.Anything, int64(1)).Return(event, nil)

	// Stale pending purchases older than the TTL are swept before the
	// capacity read, and the sweep is announced.
	purchases.On("ExpirePending", mock.Anything, int64(1), mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().UTC().Add(-PendingTTL)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(int64(2), nil)
	publisher.On("Publish", models.EventPurchasesExpired, mock.Anything).Return(nil)

	occurrences.On("ListScheduledByEvent", mock.Anything, int64(1)).Return([]models.Occurrence{{ID: 10}}, nil)
	purchases.On("ActiveParticipantCount", mock.Anything, int64(1)).Return(0, nil)

	_, err := svc.View(context.Background(), 1)

	require.NoError(t, err)
	purchases.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCheckoutPerOccurrence(t *testing.T) {
	event := &models.Event{
		ID:          2,
		PricingMode: models.PricingModePerOccurrence,
		Price:       5000,
		Status:      models.EventStatusPublished,
	}
	scheduled := []models.Occurrence{
		{ID: 20, EventID: 2, CapacityOverride: intPtr(3)},
		{ID: 21, EventID: 2, PriceOverride: int64Ptr(8000)},
	}

	t.Run("selection totals and bounds", func(t *testing.T) {
		events := new(mockEventStore)
		occurrences := new(mockOccurrenceStore)
		purchases := new(mockPurchaseStore)
		svc := NewCheckoutService(events, occurrences, purchases, nopPublisher{})

		events.On("GetByID", mock.Anything, int64(2)).Return(event, nil)
		purchases.On("ExpirePending", mock.Anything, int64(2), mock.Anything).Return(int64(0), nil)
		occurrences.On("ListScheduledByEvent", mock.Anything, int64(2)).Return(scheduled, nil)
		purchases.On("ActiveParticipantCountForOccurrence", mock.Anything, int64(20)).Return(1, nil)
		purchases.On("CreatePending", mock.Anything, mock.Anything, []int64{20, 21}, []models.CapacityBound{{OccurrenceID: 20, Limit: 3}}).Return(nil)

		req := validRequest()
		req.OccurrenceIDs = []int64{20, 21}
		req.Participants = append(req.Participants, models.ParticipantInput{Name: "Ana", Age: 11})

		purchase, err := svc.Checkout(context.Background(), 2, req)

		require.NoError(t, err)
		// (5000 + 8000) per person for two participants.
		assert.Equal(t, int64(26000), purchase.TotalAmount)
		purchases.AssertExpectations(t)
	})

	t.Run("selection outside the event is rejected", func(t *testing.T) {
		events := new(mockEventStore)
		occurrences := new(mockOccurrenceStore)
		purchases := new(mockPurchaseStore)
		svc := NewCheckoutService(events, occurrences, purchases, nopPublisher{})

		events.On("GetByID", mock.Anything, int64(2)).Return(event, nil)
		purchases.On("ExpirePending", mock.Anything, int64(2), mock.Anything).Return(int64(0), nil)
		occurrences.On("ListScheduledByEvent", mock.Anything, int64(2)).Return(scheduled, nil)

		req := validRequest()
		req.OccurrenceIDs = []int64{999}

		_, err := svc.Checkout(context.Background(), 2, req)

		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "occurrence_ids", vErr.Fields[0].Field)
	})

	t.Run("empty selection is rejected", func(t *testing.T) {
		events := new(mockEventStore)
		svc := NewCheckoutService(events, new(mockOccurrenceStore), new(mockPurchaseStore), nopPublisher{})
		events.On("GetByID", mock.Anything, int64(2)).Return(event, nil)

		req := validRequest()

		_, err := svc.Checkout(context.Background(), 2, req)

		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestCheckoutViewPackage(t *testing.T) {
	events := new(mockEventStore)
	occurrences := new(mockOccurrenceStore)
	purchases := new(mockPurchaseStore)
	svc := NewCheckoutService(events, occurrences, purchases, nopPublisher{})

	event := publishedPackageEvent()
	scheduled := []models.Occurrence{{ID: 10}, {ID: 11, CapacityOverride: intPtr(4)}}

	events.On("GetByID", mock.Anything, int64(1)).Return(event, nil)
	purchases.On("ExpirePending", mock.Anything, int64(1), mock.Anything).Return(int64(0), nil)
	occurrences.On("ListScheduledByEvent", mock.Anything, int64(1)).Return(scheduled, nil)
	purchases.On("ActiveParticipantCount", mock.Anything, int64(1)).Return(1, nil)

	view, err := svc.View(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, event.Title, view.Event.Title)
	assert.Len(t, view.Occurrences, 2)
	require.NotNil(t, view.CapacityLeft)
	// min(5, 4) across sessions minus one active participant.
	assert.Equal(t, 3, *view.CapacityLeft)
}
