package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/database"
	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

const uniqueViolation = "23505"

type OccurrenceRepository struct {
	db *database.DB
}

func NewOccurrenceRepository(db *database.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

func (r *OccurrenceRepository) Create(ctx context.Context, oc *models.Occurrence) error {
	query := `
		INSERT INTO occurrences (event_id, start_at, end_at, capacity_override, price_override, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		oc.EventID,
		oc.StartAt,
		oc.EndAt,
		oc.CapacityOverride,
		oc.PriceOverride,
		oc.Status,
	).Scan(&oc.ID)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return apperrors.Validation("start_at", "an occurrence with this start time already exists for the event")
	}

	return err
}

func (r *OccurrenceRepository) GetByID(ctx context.Context, id int64) (*models.Occurrence, error) {
	oc := &models.Occurrence{}
	query := `
		SELECT id, event_id, start_at, end_at, capacity_override, price_override, status
		FROM occurrences
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&oc.ID,
		&oc.EventID,
		&oc.StartAt,
		&oc.EndAt,
		&oc.CapacityOverride,
		&oc.PriceOverride,
		&oc.Status,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return oc, err
}

func (r *OccurrenceRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Occurrence, error) {
	query := `
		SELECT id, event_id, start_at, end_at, capacity_override, price_override, status
		FROM occurrences
		WHERE event_id = $1
		ORDER BY start_at`

	return r.list(ctx, query, eventID)
}

func (r *OccurrenceRepository) ListScheduledByEvent(ctx context.Context, eventID int64) ([]models.Occurrence, error) {
	query := `
		SELECT id, event_id, start_at, end_at, capacity_override, price_override, status
		FROM occurrences
		WHERE event_id = $1 AND status = 'scheduled'
		ORDER BY start_at`

	return r.list(ctx, query, eventID)
}

func (r *OccurrenceRepository) Cancel(ctx context.Context, id int64) error {
	query := `UPDATE occurrences SET status = 'cancelled' WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *OccurrenceRepository) list(ctx context.Context, query string, args ...any) ([]models.Occurrence, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var occurrences []models.Occurrence
	for rows.Next() {
		var oc models.Occurrence
		err := rows.Scan(
			&oc.ID,
			&oc.EventID,
			&oc.StartAt,
			&oc.EndAt,
			&oc.CapacityOverride,
			&oc.PriceOverride,
			&oc.Status,
		)
		if err != nil {
			return nil, err
		}
		occurrences = append(occurrences, oc)
	}

	return occurrences, rows.Err()
}
