package repository

import (
	"context"
	"database/sql"
	"fmt"

	"elitestay/internal/database"
	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"
)

type RoomTypeRepository struct {
	db *database.DB
}

func NewRoomTypeRepository(db *database.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

const roomTypeColumns = `id, name, price_per_night, capacity, description, image_url, created_at, updated_at`

func scanRoomType(row interface{ Scan(...any) error }, rt *models.RoomType) error {
	return row.Scan(
		&rt.ID,
		&rt.Name,
		&rt.PricePerNight,
		&rt.Capacity,
		&rt.Description,
		&rt.ImageURL,
		&rt.CreatedAt,
		&rt.UpdatedAt,
	)
}

func (r *RoomTypeRepository) Create(ctx context.Context, rt *models.RoomType) error {
	query := `
		INSERT INTO room_types (name, price_per_night, capacity, description, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query, rt.Name, rt.PricePerNight, rt.Capacity, rt.Description, rt.ImageURL).
		Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
}

func (r *RoomTypeRepository) Update(ctx context.Context, rt *models.RoomType) error {
	query := `
		UPDATE room_types
		SET name = $1, price_per_night = $2, capacity = $3, description = $4, image_url = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rt.Name, rt.PricePerNight, rt.Capacity, rt.Description, rt.ImageURL, rt.ID).
		Scan(&rt.CreatedAt, &rt.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %d", apperrors.ErrRoomTypeNotFound, rt.ID)
	}
	return err
}

func (r *RoomTypeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM room_types WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %d", apperrors.ErrRoomTypeInUse, id)
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrRoomTypeNotFound, id)
	}
	return nil
}

func (r *RoomTypeRepository) GetByID(ctx context.Context, id int64) (*models.RoomType, error) {
	rt := &models.RoomType{}
	err := scanRoomType(r.db.QueryRowContext(ctx, `SELECT `+roomTypeColumns+` FROM room_types WHERE id = $1`, id), rt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// ListAll loads every room type; it feeds the recommendation index.
func (r *RoomTypeRepository) ListAll(ctx context.Context) ([]models.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomTypeColumns+` FROM room_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RoomType
	for rows.Next() {
		var rt models.RoomType
		if err := scanRoomType(rows, &rt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// Search is the database fallback for room type search when no
// Elasticsearch cluster is configured.
func (r *RoomTypeRepository) Search(ctx context.Context, query string, page, pageSize int) ([]models.RoomType, int, error) {
	pattern := "%" + query + "%"

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_types WHERE name ILIKE $1 OR description ILIKE $1`,
		pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roomTypeColumns+` FROM room_types
		 WHERE name ILIKE $1 OR description ILIKE $1
		 ORDER BY id LIMIT $2 OFFSET $3`,
		pattern, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.RoomType{}
	for rows.Next() {
		var rt models.RoomType
		if err := scanRoomType(rows, &rt); err != nil {
			return nil, 0, err
		}
		out = append(out, rt)
	}
	return out, total, rows.Err()
}
