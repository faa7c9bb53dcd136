package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/database"
	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

type PurchaseRepository struct {
	db *database.DB
}

func NewPurchaseRepository(db *database.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

const activeParticipantCountQuery = `
	SELECT COUNT(pp.id)
	FROM purchase_participants pp
	JOIN purchases p ON pp.purchase_id = p.id
	WHERE p.event_id = $1 AND p.status IN ('pending', 'paid')`

const activeParticipantCountForOccurrenceQuery = `
	SELECT COUNT(pp.id)
	FROM purchase_participants pp
	JOIN purchases p ON pp.purchase_id = p.id
	JOIN purchase_occurrences po ON po.purchase_id = p.id
	WHERE po.occurrence_id = $1 AND p.status IN ('pending', 'paid')`

// CreatePending inserts a pending purchase with its participants and, for
// per-occurrence purchases, the selected occurrence links. The whole insert
// runs in one transaction that locks the event row and re-checks every
// capacity bound against a fresh participant count, so two concurrent
// checkouts cannot both consume the last seat.
func (r *PurchaseRepository) CreatePending(ctx context.Context, purchase *models.Purchase, occurrenceIDs []int64, bounds []models.CapacityBound) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Serializes capacity checks per event.
	if _, err := tx.ExecContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, purchase.EventID); err != nil {
		return fmt.Errorf("failed to lock event row: %w", err)
	}

	requested := len(purchase.Participants)
	for _, bound := range bounds {
		var used int
		if bound.OccurrenceID == 0 {
			err = tx.QueryRowContext(ctx, activeParticipantCountQuery, purchase.EventID).Scan(&used)
		} else {
			err = tx.QueryRowContext(ctx, activeParticipantCountForOccurrenceQuery, bound.OccurrenceID).Scan(&used)
		}
		if err != nil {
			return fmt.Errorf("failed to count active participants: %w", err)
		}
		if used+requested > bound.Limit {
			return apperrors.ErrCapacityExceeded
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO purchases (event_id, buyer_name, buyer_email, buyer_phone, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		purchase.EventID,
		purchase.BuyerName,
		purchase.BuyerEmail,
		purchase.BuyerPhone,
		purchase.TotalAmount,
		purchase.Status,
	).Scan(&purchase.ID, &purchase.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	for i := range purchase.Participants {
		p := &purchase.Participants[i]
		p.PurchaseID = purchase.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO purchase_participants (purchase_id, name, age) VALUES ($1, $2, $3) RETURNING id`,
			p.PurchaseID, p.Name, p.Age,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for _, occurrenceID := range occurrenceIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO purchase_occurrences (purchase_id, occurrence_id) VALUES ($1, $2)`,
			purchase.ID, occurrenceID,
		)
		if err != nil {
			return fmt.Errorf("failed to link occurrence: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id int64) (*models.Purchase, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByToken looks a purchase up by its gateway correlation token, the only
// identifier the gateway return request carries.
func (r *PurchaseRepository) GetByToken(ctx context.Context, token string) (*models.Purchase, error) {
	return r.get(ctx, `WHERE tbk_token = $1`, token)
}

func (r *PurchaseRepository) get(ctx context.Context, where string, arg any) (*models.Purchase, error) {
	purchase := &models.Purchase{}
	query := `
		SELECT id, event_id, buyer_name, buyer_email, buyer_phone, total_amount,
		       tbk_token, buy_order, status, paid_at, created_at
		FROM purchases ` + where

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&purchase.ID,
		&purchase.EventID,
		&purchase.BuyerName,
		&purchase.BuyerEmail,
		&purchase.BuyerPhone,
		&purchase.TotalAmount,
		&purchase.TbkToken,
		&purchase.BuyOrder,
		&purchase.Status,
		&purchase.PaidAt,
		&purchase.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return purchase, err
}

func (r *PurchaseRepository) GetParticipants(ctx context.Context, purchaseID int64) ([]models.Participant, error) {
	query := `
		SELECT id, purchase_id, name, age
		FROM purchase_participants
		WHERE purchase_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.PurchaseID, &p.Name, &p.Age); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

func (r *PurchaseRepository) GetOccurrences(ctx context.Context, purchaseID int64) ([]models.Occurrence, error) {
	query := `
		SELECT o.id, o.event_id, o.start_at, o.end_at, o.capacity_override, o.price_override, o.status
		FROM occurrences o
		JOIN purchase_occurrences po ON po.occurrence_id = o.id
		WHERE po.purchase_id = $1
		ORDER BY o.start_at`

	rows, err := r.db.QueryContext(ctx, query, purchaseID)
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

// SetGatewayRef stores the token and order reference issued for the gateway
// hand-off. Both columns are unique, a token can never point at two
// purchases.
func (r *PurchaseRepository) SetGatewayRef(ctx context.Context, id int64, token, buyOrder string) error {
	query := `
		UPDATE purchases
		SET tbk_token = $1, buy_order = $2
		WHERE id = $3 AND status = 'pending'`

	_, err := r.db.ExecContext(ctx, query, token, buyOrder, id)
	return err
}

// MarkPaid flips a pending purchase to paid, stamps paid_at and, when
// attachScheduled is set, links every currently scheduled occurrence of the
// event, all in one transaction. A paid purchase can never end up without
// its enrollment. No other code path writes paid_at. The NOT EXISTS guard
// keeps the attach a no-op when links already exist.
func (r *PurchaseRepository) MarkPaid(ctx context.Context, purchaseID, eventID int64, paidAt time.Time, attachScheduled bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE purchases
		SET status = 'paid', paid_at = $1
		WHERE id = $2 AND status = 'pending'`,
		paidAt, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to mark purchase paid: %w", err)
	}

	if attachScheduled {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO purchase_occurrences (purchase_id, occurrence_id)
			SELECT $1, o.id
			FROM occurrences o
			WHERE o.event_id = $2
			  AND o.status = 'scheduled'
			  AND NOT EXISTS (
				SELECT 1 FROM purchase_occurrences po WHERE po.purchase_id = $1
			  )`,
			purchaseID, eventID)
		if err != nil {
			return fmt.Errorf("failed to attach occurrences: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PurchaseRepository) MarkFailed(ctx context.Context, id int64) error {
	query := `
		UPDATE purchases
		SET status = 'failed'
		WHERE id = $1 AND status = 'pending'`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ExpirePending flips pending purchases created before cutoff to expired and
// returns how many rows changed. Running it twice is harmless.
func (r *PurchaseRepository) ExpirePending(ctx context.Context, eventID int64, cutoff time.Time) (int64, error) {
	query := `
		UPDATE purchases
		SET status = 'expired'
		WHERE event_id = $1 AND status = 'pending' AND created_at < $2`

	result, err := r.db.ExecContext(ctx, query, eventID, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *PurchaseRepository) ActiveParticipantCount(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, activeParticipantCountQuery, eventID).Scan(&count)
	return count, err
}

func (r *PurchaseRepository) ActiveParticipantCountForOccurrence(ctx context.Context, occurrenceID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, activeParticipantCountForOccurrenceQuery, occurrenceID).Scan(&count)
	return count, err
}
