package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"elitestay/internal/mail"
	"elitestay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func bookingCreated(t *testing.T, email string) []byte {
	t.Helper()
	data, err := json.Marshal(models.BookingCreatedEvent{
		BookingID:    12,
		RoomNumber:   "101",
		GuestName:    "alice",
		GuestEmail:   email,
		CheckinDate:  "2025-01-10",
		CheckoutDate: "2025-01-13",
		TotalPrice:   "300.00",
	})
	require.NoError(t, err)
	return data
}

func TestBookingCreatedSendsConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewHandlers(mailer)

	require.NoError(t, h.BookingCreated(context.Background(), bookingCreated(t, "alice@example.com")))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].to)
	assert.Equal(t, mail.ConfirmationSubject, mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "Room: 101")
	assert.Contains(t, mailer.sent[0].body, "Total: 300.00")
}

func TestBookingCreatedWithoutEmail(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewHandlers(mailer)

	require.NoError(t, h.BookingCreated(context.Background(), bookingCreated(t, "Unknown")))
	assert.Empty(t, mailer.sent)
}

func TestBookingCreatedMailFailureIsRetried(t *testing.T) {
	h := NewHandlers(&fakeMailer{err: errors.New("smtp unavailable")})
	assert.Error(t, h.BookingCreated(context.Background(), bookingCreated(t, "alice@example.com")))
}

func TestMalformedEventsAreDropped(t *testing.T) {
	h := NewHandlers(&fakeMailer{})
	ctx := context.Background()
	junk := []byte("{not json")

	for name, fn := range map[string]func(context.Context, []byte) error{
		"created":      h.BookingCreated,
		"updated":      h.BookingUpdated,
		"deleted":      h.BookingDeleted,
		"released":     h.RoomReleased,
		"notification": h.NotificationCreated,
	} {
		assert.NoError(t, fn(ctx, junk), name)
	}
}
