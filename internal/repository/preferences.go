package repository

import (
	"context"
	"fmt"

	"elitestay/internal/database"
	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"
)

// PreferenceKind selects the likes or saved_rooms table.
type PreferenceKind string

const (
	PreferenceLike PreferenceKind = "like"
	PreferenceSave PreferenceKind = "save"
)

func (k PreferenceKind) table() (string, error) {
	switch k {
	case PreferenceLike:
		return "likes", nil
	case PreferenceSave:
		return "saved_rooms", nil
	}
	return "", fmt.Errorf("unknown preference kind %q", k)
}

type PreferenceRepository struct {
	db *database.DB
}

func NewPreferenceRepository(db *database.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Add records the preference; repeating it is a no-op.
func (r *PreferenceRepository) Add(ctx context.Context, kind PreferenceKind, userID string, roomID int64) error {
	table, err := kind.table()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO `+table+` (user_id, room_id) VALUES ($1, $2) ON CONFLICT (user_id, room_id) DO NOTHING`,
		userID, roomID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, roomID)
	}
	return err
}

func (r *PreferenceRepository) Remove(ctx context.Context, kind PreferenceKind, userID string, roomID int64) error {
	table, err := kind.table()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = $1 AND room_id = $2`, userID, roomID)
	return err
}

// RoomTypes returns, in one query, the distinct room types of every room
// the user liked or saved, in order of first preference.
func (r *PreferenceRepository) RoomTypes(ctx context.Context, kind PreferenceKind, userID string) ([]models.RoomType, error) {
	table, err := kind.table()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT rt.id, rt.name, rt.price_per_night, rt.capacity, rt.description,
		       rt.image_url, rt.created_at, rt.updated_at
		FROM room_types rt
		JOIN (
		    SELECT r.room_type_id, MIN(p.created_at) AS first_at
		    FROM ` + table + ` p
		    JOIN rooms r ON r.id = p.room_id
		    WHERE p.user_id = $1
		    GROUP BY r.room_type_id
		) pref ON pref.room_type_id = rt.id
		ORDER BY pref.first_at, rt.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
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
