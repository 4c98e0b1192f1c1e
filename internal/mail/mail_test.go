package mail

import (
	"context"
	"errors"
	"testing"

	"elitestay/internal/models"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent int
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent += len(m)
	return nil
}

func TestSendDelivers(t *testing.T) {
	d := &fakeDialer{}
	s := newSender(Config{Enabled: true, From: "hotel@example.com"}, d)

	err := s.Send(context.Background(), "guest@example.com", ConfirmationSubject, "hi")
	assert.NoError(t, err)
	assert.Equal(t, 1, d.sent)
}

func TestSendDisabledIsNoop(t *testing.T) {
	d := &fakeDialer{}
	s := newSender(Config{Enabled: false}, d)

	assert.NoError(t, s.Send(context.Background(), "guest@example.com", "s", "b"))
	assert.Equal(t, 0, d.sent)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	s := newSender(Config{Enabled: true}, d)

	for i := 0; i < 3; i++ {
		assert.Error(t, s.Send(context.Background(), "guest@example.com", "s", "b"))
	}

	err := s.Send(context.Background(), "guest@example.com", "s", "b")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestSendHonoursCancelledContext(t *testing.T) {
	d := &fakeDialer{}
	s := newSender(Config{Enabled: true}, d)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, "guest@example.com", "s", "b"), context.Canceled)
	assert.Equal(t, 0, d.sent)
}

func TestBookingConfirmation(t *testing.T) {
	subject, body := BookingConfirmation(models.BookingCreatedEvent{
		BookingID:    42,
		GuestName:    "alice",
		RoomNumber:   "101",
		CheckinDate:  "2025-01-10",
		CheckoutDate: "2025-01-13",
		TotalPrice:   "300.00",
	})
	assert.Equal(t, ConfirmationSubject, subject)
	assert.Contains(t, body, "Dear alice")
	assert.Contains(t, body, "#42")
	assert.Contains(t, body, "300.00")
}
