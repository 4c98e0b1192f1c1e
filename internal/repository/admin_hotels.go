package repository

import (
	"context"
	"database/sql"

	"elitestay/internal/database"
	"elitestay/internal/models"
)

type AdminHotelRepository struct {
	db *database.DB
}

func NewAdminHotelRepository(db *database.DB) *AdminHotelRepository {
	return &AdminHotelRepository{db: db}
}

func (r *AdminHotelRepository) Create(ctx context.Context, a *models.AdminHotel) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO admin_hotels (account_id, user_name, hotel_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET hotel_id = EXCLUDED.hotel_id, user_name = EXCLUDED.user_name
		RETURNING id`,
		a.AccountID, a.UserName, a.HotelID).Scan(&a.ID)
}

// HotelIDForAccount returns the hotel an AdminHotel operator manages.
func (r *AdminHotelRepository) HotelIDForAccount(ctx context.Context, accountID string) (int64, bool, error) {
	var hotelID int64
	err := r.db.QueryRowContext(ctx, `SELECT hotel_id FROM admin_hotels WHERE account_id = $1`, accountID).Scan(&hotelID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return hotelID, true, nil
}
