package service

import (
	"time"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

// PendingTTL is how long a pending purchase reserves capacity before the
// lazy expiry sweep releases it.
const PendingTTL = 2 * time.Hour

// PackageCapacity returns the capacity bound of a package: the minimum
// effective capacity across the scheduled occurrences. A package buyer is
// enrolled in every session at once, so the tightest session binds. nil
// means unbounded: either there are no scheduled occurrences, or at least
// one of them has no effective capacity, which makes the whole package
// unbounded.
func PackageCapacity(event *models.Event, scheduled []models.Occurrence) *int {
	if len(scheduled) == 0 {
		return nil
	}

	var minCap *int
	for i := range scheduled {
		c := scheduled[i].EffectiveCapacity(event)
		if c == nil {
			return nil
		}
		if minCap == nil || *c < *minCap {
			minCap = c
		}
	}

	return minCap
}

// PackageRemaining returns the seats left for a package event given the
// number of participants on pending or paid purchases, floored at zero.
// nil means unbounded.
func PackageRemaining(event *models.Event, scheduled []models.Occurrence, used int) *int {
	capacity := PackageCapacity(event, scheduled)
	if capacity == nil {
		return nil
	}

	remaining := *capacity - used
	if remaining < 0 {
		remaining = 0
	}

	return &remaining
}

// OccurrenceRemaining is the per-session variant: the occurrence's own
// effective capacity minus the participants on pending or paid purchases
// linked to it, floored at zero. nil means unbounded.
func OccurrenceRemaining(event *models.Event, oc *models.Occurrence, used int) *int {
	capacity := oc.EffectiveCapacity(event)
	if capacity == nil {
		return nil
	}

	remaining := *capacity - used
	if remaining < 0 {
		remaining = 0
	}

	return &remaining
}
