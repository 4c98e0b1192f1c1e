package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"elitestay/internal/database"
	"elitestay/internal/models"

	"github.com/shopspring/decimal"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateWithPayment inserts the booking and its payment in one transaction.
func (r *BookingRepository) CreateWithPayment(ctx context.Context, booking *models.Booking, payment *models.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (guest_id, room_id, checkin_date, checkout_date, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		booking.GuestID,
		booking.RoomID,
		booking.CheckinDate,
		booking.CheckoutDate,
		booking.TotalPrice,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	payment.BookingID = booking.ID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (booking_id, amount, payment_date, method, status_done)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		payment.BookingID,
		payment.Amount,
		payment.PaymentDate,
		payment.Method,
		payment.StatusDone,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	booking.Payment = payment
	return nil
}

const bookingSelect = `
	SELECT b.id, b.guest_id, b.room_id, b.checkin_date, b.checkout_date, b.total_price,
	       b.created_at, b.updated_at, g.name, g.account_id, r.room_number, r.hotel_id,
	       p.id, p.amount, p.payment_date, p.method, p.status_done
	FROM bookings b
	JOIN guests g ON g.id = b.guest_id
	JOIN rooms r ON r.id = b.room_id
	LEFT JOIN payments p ON p.booking_id = b.id`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var (
		b         models.Booking
		accountID sql.NullString
		payID     sql.NullInt64
		amount    decimal.NullDecimal
		payDate   sql.NullTime
		method    sql.NullString
		done      sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.GuestID,
		&b.RoomID,
		&b.CheckinDate,
		&b.CheckoutDate,
		&b.TotalPrice,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.GuestName,
		&accountID,
		&b.RoomNumber,
		&b.HotelID,
		&payID,
		&amount,
		&payDate,
		&method,
		&done,
	)
	if err != nil {
		return nil, err
	}

	if accountID.Valid {
		b.GuestAccountID = &accountID.String
	}
	if payID.Valid {
		b.Payment = &models.Payment{
			ID:          payID.Int64,
			BookingID:   b.ID,
			Amount:      amount.Decimal,
			PaymentDate: payDate.Time,
			Method:      models.PaymentMethod(method.String),
			StatusDone:  models.PaymentStatus(done.String),
		}
	}
	return &b, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

// ListByAccount pages through the bookings of the guest linked to an
// account, latest checkout first.
func (r *BookingRepository) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]models.Booking, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings b
		JOIN guests g ON g.id = b.guest_id
		WHERE g.account_id = $1`, accountID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		bookingSelect+` WHERE g.account_id = $1 ORDER BY b.checkout_date DESC, b.id DESC LIMIT $2 OFFSET $3`,
		accountID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, total, rows.Err()
}

// UpdateDates changes the stay and its total. The payment row keeps the
// amount recorded at creation.
func (r *BookingRepository) UpdateDates(ctx context.Context, id int64, checkin, checkout time.Time, total decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET checkin_date = $1, checkout_date = $2, total_price = $3, updated_at = NOW()
		WHERE id = $4`,
		checkin, checkout, total, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the booking; its payment goes with it via ON DELETE CASCADE.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindExpired returns, for every occupied room whose latest booking has
// checked out on or before asOf, that booking. Rooms with a booking still
// running past asOf are excluded. hotelID narrows the scan to one hotel.
func (r *BookingRepository) FindExpired(ctx context.Context, asOf time.Time, hotelID *int64) ([]models.ExpiredBooking, error) {
	query := `
		SELECT DISTINCT ON (b.room_id)
		       b.id, b.room_id, r.room_number, r.hotel_id, b.guest_id,
		       COALESCE(g.name, ''), g.account_id, b.checkout_date
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		LEFT JOIN guests g ON g.id = b.guest_id
		WHERE b.checkout_date <= $1
		  AND r.status = 'Occupied'
		  AND NOT EXISTS (
		      SELECT 1 FROM bookings active
		      WHERE active.room_id = b.room_id AND active.checkout_date > $1
		  )`
	args := []any{asOf}

	if hotelID != nil {
		query += ` AND r.hotel_id = $2`
		args = append(args, *hotelID)
	}
	query += ` ORDER BY b.room_id, b.checkout_date DESC, b.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []models.ExpiredBooking
	for rows.Next() {
		var (
			e         models.ExpiredBooking
			accountID sql.NullString
		)
		err := rows.Scan(
			&e.BookingID,
			&e.RoomID,
			&e.RoomNumber,
			&e.HotelID,
			&e.GuestID,
			&e.GuestName,
			&accountID,
			&e.CheckoutDate,
		)
		if err != nil {
			return nil, err
		}
		if accountID.Valid {
			e.GuestAccountID = &accountID.String
		}
		expired = append(expired, e)
	}
	return expired, rows.Err()
}
