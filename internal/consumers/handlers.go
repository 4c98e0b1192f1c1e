package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"elitestay/internal/mail"
	"elitestay/internal/models"

	"github.com/nats-io/stan.go"
)

const mailTimeout = 30 * time.Second

// Mailer is satisfied by *mail.Sender.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Handlers struct {
	mailer Mailer
}

func NewHandlers(mailer Mailer) *Handlers {
	return &Handlers{mailer: mailer}
}

// ack runs fn and acknowledges the message on success. A failed message is
// left unacknowledged so NATS Streaming redelivers it after AckWait.
func ack(subject string, fn func(ctx context.Context, data []byte) error) stan.MsgHandler {
	return func(m *stan.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := fn(ctx, m.Data); err != nil {
			slog.Error("Failed to process message",
				"error", err, "subject", subject, "sequence", m.Sequence, "redelivered", m.Redelivered)
			return
		}
		if err := m.Ack(); err != nil {
			slog.Error("Failed to ack message", "error", err, "subject", subject, "sequence", m.Sequence)
		}
	}
}

// BookingCreated sends the confirmation mail to the guest.
func (h *Handlers) BookingCreated(ctx context.Context, data []byte) error {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		// Повторная доставка не поможет битому сообщению
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return nil
	}

	slog.Info("Processing booking created event", "booking_id", event.BookingID, "room_id", event.RoomID)

	if !strings.Contains(event.GuestEmail, "@") {
		slog.Warn("Guest has no email address, skipping confirmation",
			"booking_id", event.BookingID, "guest_id", event.GuestID)
		return nil
	}

	subject, body := mail.BookingConfirmation(event)
	if err := h.mailer.Send(ctx, event.GuestEmail, subject, body); err != nil {
		return fmt.Errorf("booking %d confirmation: %w", event.BookingID, err)
	}

	slog.Info("Booking confirmation sent", "booking_id", event.BookingID)
	return nil
}

func (h *Handlers) BookingUpdated(_ context.Context, data []byte) error {
	var event models.BookingUpdatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal booking updated event", "error", err)
		return nil
	}
	slog.Info("Booking dates changed",
		"booking_id", event.BookingID,
		"checkin", event.CheckinDate,
		"checkout", event.CheckoutDate,
		"total_price", event.TotalPrice)
	return nil
}

func (h *Handlers) BookingDeleted(_ context.Context, data []byte) error {
	var event models.BookingDeletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal booking deleted event", "error", err)
		return nil
	}
	slog.Info("Booking deleted",
		"booking_id", event.BookingID,
		"room_id", event.RoomID,
		"room_released", event.RoomReleased,
		"reason", event.Reason)
	return nil
}

func (h *Handlers) RoomReleased(_ context.Context, data []byte) error {
	var event models.RoomReleasedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal room released event", "error", err)
		return nil
	}
	slog.Info("Room released by reconciliation",
		"room_id", event.RoomID,
		"room_number", event.RoomNumber,
		"hotel_id", event.HotelID,
		"booking_id", event.BookingID)
	return nil
}

func (h *Handlers) NotificationCreated(_ context.Context, data []byte) error {
	var event models.NotificationCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal notification created event", "error", err)
		return nil
	}
	slog.Info("Notification delivered",
		"notification_id", event.NotificationID,
		"user_id", event.UserID)
	return nil
}
