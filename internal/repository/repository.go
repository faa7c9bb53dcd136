package repository

import (
	"github.com/ArleDjinn/AjedrezRecreativo/internal/database"
)

type Repositories struct {
	Events      *EventRepository
	Occurrences *OccurrenceRepository
	Purchases   *PurchaseRepository
	Admins      *AdminRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:      NewEventRepository(db),
		Occurrences: NewOccurrenceRepository(db),
		Purchases:   NewPurchaseRepository(db),
		Admins:      NewAdminRepository(db),
	}
}
