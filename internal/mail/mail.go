// Package mail delivers guest emails over SMTP behind a circuit breaker.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"elitestay/internal/models"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"
)

const ConfirmationSubject = "Your Room Reservation Confirmation"

type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Sender struct {
	dialer  Dialer
	from    string
	enabled bool
	cb      *gobreaker.CircuitBreaker
}

func NewSender(cfg Config) *Sender {
	return newSender(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

func newSender(cfg Config, dialer Dialer) *Sender {
	return &Sender{
		dialer:  dialer,
		from:    cfg.From,
		enabled: cfg.Enabled,
		cb:      circuitBreaker("smtp"),
	}
}

func circuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

// Send delivers a plain-text message. An open breaker fails fast with
// gobreaker.ErrOpenState.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	if !s.enabled {
		slog.Debug("SMTP disabled, dropping mail", "to", to, "subject", subject)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.dialer.DialAndSend(msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("smtp unavailable: %w", err)
		}
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// BookingConfirmation renders the confirmation mail for a new booking.
func BookingConfirmation(evt models.BookingCreatedEvent) (string, string) {
	body := fmt.Sprintf(`Dear %s,

Your reservation is confirmed.

Booking: #%d
Room: %s
Check-in: %s
Check-out: %s
Total: %s

We look forward to welcoming you.
`, evt.GuestName, evt.BookingID, evt.RoomNumber, evt.CheckinDate, evt.CheckoutDate, evt.TotalPrice)
	return ConfirmationSubject, body
}
