package repository

import (
	"context"
	"fmt"

	"elitestay/internal/database"
	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"
)

type RatingRepository struct {
	db *database.DB
}

func NewRatingRepository(db *database.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO ratings (user_id, hotel_id, value)
		VALUES ($1, $2, $3)
		RETURNING id, rated_at`,
		rating.UserID, rating.HotelID, rating.Value).Scan(&rating.ID, &rating.RatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %d", apperrors.ErrHotelNotFound, rating.HotelID)
	}
	return err
}

// ListByHotel returns a hotel's ratings, newest first.
func (r *RatingRepository) ListByHotel(ctx context.Context, hotelID int64, page, pageSize int) ([]models.Rating, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ratings WHERE hotel_id = $1`, hotelID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, hotel_id, value, rated_at
		FROM ratings
		WHERE hotel_id = $1
		ORDER BY rated_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		hotelID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.HotelID, &rt.Value, &rt.RatedAt); err != nil {
			return nil, 0, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, total, rows.Err()
}

// Stats aggregates ratings per hotel for hotels with more than minCount
// ratings. Mean is the exact average; rounding is left to the caller.
func (r *RatingRepository) Stats(ctx context.Context, minCount int) ([]models.HotelRatingStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT hotel_id, COUNT(*), AVG(value)
		FROM ratings
		GROUP BY hotel_id
		HAVING COUNT(*) > $1`,
		minCount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.HotelRatingStats{}
	for rows.Next() {
		var s models.HotelRatingStats
		if err := rows.Scan(&s.HotelID, &s.Count, &s.Mean); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
