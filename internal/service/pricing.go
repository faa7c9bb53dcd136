package service

import (
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

// Amounts are integer Chilean pesos throughout, never floats.

// PackageTotal is the package charge: the flat per-person package fee times
// the participant count.
func PackageTotal(event *models.Event, participants int) int64 {
	return event.Price * int64(participants)
}

// PerOccurrenceTotal is the charge for a selection of sessions: the sum of
// the selected occurrences' effective prices, times the participant count.
func PerOccurrenceTotal(event *models.Event, selected []models.Occurrence, participants int) int64 {
	var perPerson int64
	for i := range selected {
		perPerson += selected[i].EffectivePrice(event)
	}

	return perPerson * int64(participants)
}
