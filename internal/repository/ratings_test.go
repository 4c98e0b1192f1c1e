package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRatingRepository(db)
	ratedAt := time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)
	insertSQL := regexp.QuoteMeta(`INSERT INTO ratings (user_id, hotel_id, value)`)

	mock.ExpectQuery(insertSQL).
		WithArgs("acc-1", int64(3), decimal.RequireFromString("4.5")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rated_at"}).AddRow(11, ratedAt))
	mock.ExpectQuery(insertSQL).
		WithArgs("acc-1", int64(99), decimal.RequireFromString("4")).
		WillReturnError(&pq.Error{Code: "23503"})

	rating := &models.Rating{UserID: "acc-1", HotelID: 3, Value: decimal.RequireFromString("4.5")}
	require.NoError(t, repo.Create(context.Background(), rating))
	assert.Equal(t, int64(11), rating.ID)
	assert.Equal(t, ratedAt, rating.RatedAt)

	err := repo.Create(context.Background(), &models.Rating{UserID: "acc-1", HotelID: 99, Value: decimal.RequireFromString("4")})
	assert.True(t, errors.Is(err, apperrors.ErrHotelNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRatingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`HAVING COUNT(*) > $1`)).
		WithArgs(200).
		WillReturnRows(sqlmock.NewRows([]string{"hotel_id", "count", "avg"}).
			AddRow(1, 250, "3.9600000000000000").
			AddRow(4, 201, "2.95"))

	stats, err := repo.Stats(context.Background(), 200)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 250, stats[0].Count)
	assert.True(t, stats[0].Mean.Equal(decimal.RequireFromString("3.96")))
	assert.Equal(t, int64(4), stats[1].HotelID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentGetAndUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	paidOn := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM payments p`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "amount", "payment_date", "method", "status_done", "hotel_id"}).
			AddRow(7, 3, "160.00", paidOn, "Cash", "NO", 2))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM payments p`)).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, models.PaymentCash, p.Method)
	assert.Equal(t, models.PaymentPending, p.StatusDone)
	assert.Equal(t, int64(2), p.HotelID)

	missing, err := repo.GetByID(context.Background(), 8)
	require.NoError(t, err)
	assert.Nil(t, missing)

	updateSQL := regexp.QuoteMeta(`UPDATE payments`)
	mock.ExpectExec(updateSQL).
		WithArgs(p.Amount, paidOn, models.PaymentCash, models.PaymentDone, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	p.StatusDone = models.PaymentDone
	require.NoError(t, repo.Update(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}
