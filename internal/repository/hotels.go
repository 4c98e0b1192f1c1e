package repository

import (
	"context"

	"elitestay/internal/database"
	"elitestay/internal/models"

	"github.com/lib/pq"
)

type HotelRepository struct {
	db *database.DB
}

func NewHotelRepository(db *database.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

const hotelColumns = `id, name, address, stars, tags, phone, email, created_at`

func (r *HotelRepository) Create(ctx context.Context, h *models.Hotel) error {
	query := `
		INSERT INTO hotels (name, address, stars, tags, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query, h.Name, h.Address, h.Stars, h.Tags, h.Phone, h.Email).
		Scan(&h.ID, &h.CreatedAt)
}

// ListAll loads every hotel; tags feed the hotel recommendation index.
func (r *HotelRepository) ListAll(ctx context.Context) ([]models.Hotel, error) {
	return r.query(ctx, `SELECT `+hotelColumns+` FROM hotels ORDER BY id`)
}

// GetByIDs returns hotels in no particular order.
func (r *HotelRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Hotel, error) {
	if len(ids) == 0 {
		return []models.Hotel{}, nil
	}
	return r.query(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = ANY($1)`, pq.Array(ids))
}

func (r *HotelRepository) query(ctx context.Context, query string, args ...any) ([]models.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hotels := []models.Hotel{}
	for rows.Next() {
		var h models.Hotel
		err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.Stars, &h.Tags, &h.Phone, &h.Email, &h.CreatedAt)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}
