package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"elitestay/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGuestIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepository(db)
	account := "acc-1"

	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (account_id) DO NOTHING`)).
			WithArgs(account, "alice", "alice@example.com", "Unknown").
			WillReturnResult(sqlmock.NewResult(0, int64(1-i)))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM guests WHERE account_id = $1`)).
			WithArgs(account).
			WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "name", "email", "phone", "created_at"}).
				AddRow(int64(3), account, "alice", "alice@example.com", "Unknown", time.Now()))
	}

	in := &models.Guest{AccountID: &account, Name: "alice", Email: "alice@example.com", Phone: "Unknown"}
	first, err := repo.Resolve(context.Background(), in)
	require.NoError(t, err)
	second, err := repo.Resolve(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
