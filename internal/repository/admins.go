package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/database"
	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

type AdminRepository struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (email, password_hash, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		admin.Email,
		admin.PasswordHash,
		admin.IsActive,
	).Scan(&admin.ID, &admin.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return apperrors.Validation("email", "an admin with this email already exists")
	}

	return err
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin := &models.Admin{}
	query := `
		SELECT id, email, password_hash, is_active, created_at
		FROM admins
		WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.IsActive,
		&admin.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return admin, err
}
