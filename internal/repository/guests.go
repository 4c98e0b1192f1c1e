package repository

import (
	"context"
	"database/sql"

	"elitestay/internal/database"
	"elitestay/internal/models"
)

type GuestRepository struct {
	db *database.DB
}

func NewGuestRepository(db *database.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// Resolve returns the guest linked to g.AccountID, creating it from g when
// absent. Concurrent callers for the same account all get the same row.
func (r *GuestRepository) Resolve(ctx context.Context, g *models.Guest) (*models.Guest, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO guests (account_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO NOTHING`,
		g.AccountID, g.Name, g.Email, g.Phone)
	if err != nil {
		return nil, err
	}

	guest := &models.Guest{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, email, phone, created_at
		FROM guests WHERE account_id = $1`, g.AccountID).Scan(
		&guest.ID,
		&guest.AccountID,
		&guest.Name,
		&guest.Email,
		&guest.Phone,
		&guest.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return guest, nil
}
