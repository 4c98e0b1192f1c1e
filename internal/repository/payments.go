package repository

import (
	"context"
	"database/sql"

	"elitestay/internal/database"
	"elitestay/internal/models"
)

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetByID returns the payment with the hotel of its booking, or nil.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	var p models.Payment
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.booking_id, p.amount, p.payment_date, p.method, p.status_done, rm.hotel_id
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		JOIN rooms rm ON rm.id = b.room_id
		WHERE p.id = $1`, id).
		Scan(&p.ID, &p.BookingID, &p.Amount, &p.PaymentDate, &p.Method, &p.StatusDone, &p.HotelID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *models.Payment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET amount = $1, payment_date = $2, method = $3, status_done = $4
		WHERE id = $5`,
		p.Amount, p.PaymentDate, p.Method, p.StatusDone, p.ID)
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
