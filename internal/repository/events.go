package repository

import (
	"context"
	"database/sql"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/database"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, pricing_mode, price, capacity_default, category, location_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		event.Title,
		event.PricingMode,
		event.Price,
		event.CapacityDefault,
		event.Category,
		event.LocationName,
		event.Status,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, pricing_mode = $2, price = $3, capacity_default = $4,
		    category = $5, location_name = $6, status = $7
		WHERE id = $8`

	_, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.PricingMode,
		event.Price,
		event.CapacityDefault,
		event.Category,
		event.LocationName,
		event.Status,
		event.ID,
	)

	return err
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, title, pricing_mode, price, capacity_default, category, location_name, status, created_at
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.PricingMode,
		&event.Price,
		&event.CapacityDefault,
		&event.Category,
		&event.LocationName,
		&event.Status,
		&event.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

func (r *EventRepository) ListAll(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT id, title, pricing_mode, price, capacity_default, category, location_name, status, created_at
		FROM events
		ORDER BY created_at DESC`

	return r.list(ctx, query)
}

func (r *EventRepository) ListPublished(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT id, title, pricing_mode, price, capacity_default, category, location_name, status, created_at
		FROM events
		WHERE status = 'published'
		ORDER BY created_at DESC`

	return r.list(ctx, query)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.PricingMode,
			&event.Price,
			&event.CapacityDefault,
			&event.Category,
			&event.LocationName,
			&event.Status,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
