package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"elitestay/internal/database"
	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"

	"github.com/lib/pq"
)

// RoomRepository is the availability ledger: the only writer of rooms.status.
type RoomRepository struct {
	db *database.DB
}

func NewRoomRepository(db *database.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// TryReserve flips Available -> Occupied in a single conditional update.
// A room that is already occupied is left untouched.
func (r *RoomRepository) TryReserve(ctx context.Context, roomID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET status = 'Occupied', updated_at = NOW() WHERE id = $1 AND status = 'Available'`,
		roomID)
	if err != nil {
		return fmt.Errorf("reserve room %d: %w", roomID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve room %d: %w", roomID, err)
	}
	if n == 1 {
		return nil
	}

	exists, err := r.exists(ctx, roomID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, roomID)
	}
	return fmt.Errorf("%w: %d", apperrors.ErrRoomUnavailable, roomID)
}

// Release marks the room Available. Releasing an available room is a no-op.
func (r *RoomRepository) Release(ctx context.Context, roomID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET status = 'Available', updated_at = NOW() WHERE id = $1`,
		roomID)
	if err != nil {
		return fmt.Errorf("release room %d: %w", roomID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release room %d: %w", roomID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, roomID)
	}
	return nil
}

// ReleaseIdle flips Occupied -> Available only when no booking other than
// exceptBookingID still runs past asOf. It reports whether this call made
// the change; false means the room was already free or is held again.
func (r *RoomRepository) ReleaseIdle(ctx context.Context, roomID int64, asOf time.Time, exceptBookingID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE rooms SET status = 'Available', updated_at = NOW()
		WHERE id = $1 AND status = 'Occupied'
		  AND NOT EXISTS (
		      SELECT 1 FROM bookings b
		      WHERE b.room_id = $1 AND b.checkout_date > $2 AND b.id <> $3
		  )`,
		roomID, asOf, exceptBookingID)
	if err != nil {
		return false, fmt.Errorf("release room %d: %w", roomID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("release room %d: %w", roomID, err)
	}
	return n == 1, nil
}

func (r *RoomRepository) StatusOf(ctx context.Context, roomID int64) (models.RoomStatus, error) {
	var status models.RoomStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM rooms WHERE id = $1`, roomID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, roomID)
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

func (r *RoomRepository) exists(ctx context.Context, roomID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`, roomID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check room %d: %w", roomID, err)
	}
	return exists, nil
}

// GetRate returns the room with its nightly rate, or nil when missing.
func (r *RoomRepository) GetRate(ctx context.Context, roomID int64) (*models.RoomRate, error) {
	rate := &models.RoomRate{}
	query := `
		SELECT r.id, r.hotel_id, r.room_number, rt.price_per_night
		FROM rooms r
		JOIN room_types rt ON rt.id = r.room_type_id
		WHERE r.id = $1`

	err := r.db.QueryRowContext(ctx, query, roomID).Scan(
		&rate.RoomID,
		&rate.HotelID,
		&rate.RoomNumber,
		&rate.PricePerNight,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (hotel_id, room_type_id, room_number, status)
		VALUES ($1, $2, $3, 'Available')
		ON CONFLICT (hotel_id, room_number) DO NOTHING
		RETURNING id, status, updated_at`

	err := r.db.QueryRowContext(ctx, query, room.HotelID, room.RoomTypeID, room.RoomNumber).
		Scan(&room.ID, &room.Status, &room.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("room %s in hotel %d: %w", room.RoomNumber, room.HotelID, apperrors.ErrAlreadyExists)
	}
	return err
}

// ListByRoomTypes pages through rooms of the given types, ordered by the
// position of their type in typeIDs and then by room id.
func (r *RoomRepository) ListByRoomTypes(ctx context.Context, typeIDs []int64, page, pageSize int) ([]models.RoomView, int, error) {
	if len(typeIDs) == 0 {
		return []models.RoomView{}, 0, nil
	}

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rooms WHERE room_type_id = ANY($1)`,
		pq.Array(typeIDs)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.id, r.hotel_id, r.room_number, r.status, rt.id, rt.name,
		       rt.price_per_night, rt.capacity, rt.description, rt.image_url
		FROM rooms r
		JOIN room_types rt ON rt.id = r.room_type_id
		WHERE r.room_type_id = ANY($1)
		ORDER BY array_position($1::bigint[], r.room_type_id), r.id
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(typeIDs), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rooms := []models.RoomView{}
	for rows.Next() {
		var v models.RoomView
		err := rows.Scan(
			&v.ID,
			&v.HotelID,
			&v.RoomNumber,
			&v.Status,
			&v.RoomTypeID,
			&v.TypeName,
			&v.PricePerNight,
			&v.Capacity,
			&v.Description,
			&v.ImageURL,
		)
		if err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, v)
	}

	return rooms, total, rows.Err()
}
