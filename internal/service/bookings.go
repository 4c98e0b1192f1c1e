package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/logger"
	"elitestay/internal/metrics"
	"elitestay/internal/models"
	"elitestay/internal/pricing"

	"github.com/shopspring/decimal"
)

const defaultBookingPageSize = 20

type BookingService struct {
	ledger    RoomLedger
	bookings  BookingStore
	guests    GuestStore
	scopes    HotelScopeStore
	notifier  Notifier
	publisher EventPublisher
	opts      Options

	calculate func(checkin, checkout time.Time, rate decimal.Decimal) (decimal.Decimal, error)
	now       func() time.Time
}

func NewBookingService(ledger RoomLedger, bookings BookingStore, guests GuestStore, scopes HotelScopeStore, notifier Notifier, publisher EventPublisher, opts Options) *BookingService {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 5 * time.Second
	}
	if opts.ReconcileWorkers <= 0 {
		opts.ReconcileWorkers = 8
	}
	return &BookingService{
		ledger:    ledger,
		bookings:  bookings,
		guests:    guests,
		scopes:    scopes,
		notifier:  notifier,
		publisher: publisher,
		opts:      opts,
		calculate: pricing.CalculateTotal,
		now:       time.Now,
	}
}

func (s *BookingService) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateBooking reserves the room, prices the stay and persists the booking
// with its payment. If persisting fails the reservation is released.
func (s *BookingService) CreateBooking(ctx context.Context, identity models.Identity, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	if identity.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	checkin, checkout, err := pricing.ParseStay(req.CheckinDate, req.CheckoutDate)
	if err != nil {
		return nil, err
	}

	method, status, err := PaymentPolicy(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	guest, err := s.resolveGuest(ctx, identity)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.TryReserve(ctx, req.RoomID); err != nil {
		if errors.Is(err, apperrors.ErrRoomUnavailable) {
			metrics.ReservationConflicts.Inc()
		}
		return nil, err
	}

	rate, err := s.ledger.GetRate(ctx, req.RoomID)
	if err != nil || rate == nil {
		if err == nil {
			err = fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, req.RoomID)
		}
		s.compensate(ctx, req.RoomID, err)
		return nil, err
	}

	total, err := s.calculate(checkin, checkout, rate.PricePerNight)
	if err != nil {
		s.compensate(ctx, req.RoomID, err)
		return nil, err
	}

	booking := &models.Booking{
		GuestID:        guest.ID,
		RoomID:         req.RoomID,
		CheckinDate:    checkin,
		CheckoutDate:   checkout,
		TotalPrice:     total,
		GuestName:      guest.Name,
		GuestAccountID: guest.AccountID,
		RoomNumber:     rate.RoomNumber,
		HotelID:        rate.HotelID,
	}
	payment := &models.Payment{
		Amount:      total,
		PaymentDate: checkout,
		Method:      method,
		StatusDone:  status,
	}

	if err := s.bookings.CreateWithPayment(ctx, booking, payment); err != nil {
		s.compensate(ctx, req.RoomID, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}
	metrics.BookingsCreated.Inc()

	s.publish(ctx, models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID:    booking.ID,
		RoomID:       booking.RoomID,
		RoomNumber:   rate.RoomNumber,
		GuestID:      guest.ID,
		GuestName:    guest.Name,
		GuestEmail:   guest.Email,
		CheckinDate:  checkin.Format(models.DateLayout),
		CheckoutDate: checkout.Format(models.DateLayout),
		TotalPrice:   total.StringFixed(2),
		Timestamp:    time.Now(),
	}, "booking_id", booking.ID)

	msg := fmt.Sprintf("New booking created for guest %s in room %s.", guest.Name, rate.RoomNumber)
	if err := s.notify(ctx, identity.UserID, msg); err != nil {
		logger.WithContext(ctx).Error("Failed to send booking notification",
			"error", err, "booking_id", booking.ID)
	}

	resp := s.toResponse(booking)
	return &resp, nil
}

// compensate releases a reservation taken for a booking that will not be
// persisted. It runs even when the request context is already cancelled.
func (s *BookingService) compensate(ctx context.Context, roomID int64, cause error) {
	metrics.BookingCompensations.Inc()
	if err := s.ledger.Release(context.WithoutCancel(ctx), roomID); err != nil {
		logger.WithContext(ctx).Error("Failed to release room after booking failure",
			"error", err, "cause", cause, "room_id", roomID)
		return
	}
	logger.WithContext(ctx).Warn("Released room after booking failure",
		"cause", cause, "room_id", roomID)
}

func (s *BookingService) resolveGuest(ctx context.Context, identity models.Identity) (*models.Guest, error) {
	accountID := identity.UserID
	guest, err := s.guests.Resolve(ctx, &models.Guest{
		AccountID: &accountID,
		Name:      guestName(identity),
		Email:     orUnknown(identity.Email),
		Phone:     orUnknown(identity.Phone),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGuestResolutionFailed, err)
	}
	if guest == nil {
		return nil, apperrors.ErrGuestResolutionFailed
	}
	return guest, nil
}

func guestName(identity models.Identity) string {
	if local, _, ok := strings.Cut(identity.Email, "@"); ok && local != "" {
		return local
	}
	if strings.TrimSpace(identity.Name) != "" {
		return identity.Name
	}
	return "Unknown"
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Unknown"
	}
	return v
}

// UpdateBooking moves the stay to new dates and recomputes the total.
func (s *BookingService) UpdateBooking(ctx context.Context, identity models.Identity, id int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	checkin, checkout, err := pricing.ParseStay(req.CheckinDate, req.CheckoutDate)
	if err != nil {
		return nil, err
	}

	booking, err := s.authorizedBooking(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	rate, err := s.ledger.GetRate(ctx, booking.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room rate: %w", err)
	}
	if rate == nil {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, booking.RoomID)
	}

	total, err := s.calculate(checkin, checkout, rate.PricePerNight)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.UpdateDates(ctx, id, checkin, checkout, total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", apperrors.ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	booking.CheckinDate = checkin
	booking.CheckoutDate = checkout
	booking.TotalPrice = total

	s.publish(ctx, models.EventBookingUpdated, models.BookingUpdatedEvent{
		BookingID:    id,
		CheckinDate:  checkin.Format(models.DateLayout),
		CheckoutDate: checkout.Format(models.DateLayout),
		TotalPrice:   total.StringFixed(2),
		Timestamp:    time.Now(),
	}, "booking_id", id)

	msg := fmt.Sprintf("Your booking in room %s now runs from %s to %s.",
		booking.RoomNumber, checkin.Format(models.DateLayout), checkout.Format(models.DateLayout))
	if err := s.notify(ctx, ownerOrCaller(booking, identity), msg); err != nil {
		logger.WithContext(ctx).Error("Failed to send booking update notification",
			"error", err, "booking_id", id)
	}

	resp := s.toResponse(booking)
	return &resp, nil
}

// DeleteBooking removes the booking. Unless another booking still holds the
// room, the room is released first and re-reserved if the delete fails.
func (s *BookingService) DeleteBooking(ctx context.Context, identity models.Identity, id int64) error {
	booking, err := s.authorizedBooking(ctx, identity, id)
	if err != nil {
		return err
	}

	released, err := s.ledger.ReleaseIdle(ctx, booking.RoomID, s.today(), booking.ID)
	if err != nil {
		return fmt.Errorf("%w: release room %d: %v", apperrors.ErrPersistenceFailed, booking.RoomID, err)
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		if released {
			if rerr := s.ledger.TryReserve(context.WithoutCancel(ctx), booking.RoomID); rerr != nil {
				logger.WithContext(ctx).Error("Failed to restore reservation after delete failure",
					"error", rerr, "booking_id", id, "room_id", booking.RoomID)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", apperrors.ErrBookingNotFound, id)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	s.publish(ctx, models.EventBookingDeleted, models.BookingDeletedEvent{
		BookingID:    id,
		RoomID:       booking.RoomID,
		RoomReleased: released,
		Reason:       "deleted",
		Timestamp:    time.Now(),
	}, "booking_id", id)

	msg := fmt.Sprintf("Your booking in room %s has been deleted.", booking.RoomNumber)
	if err := s.notify(ctx, ownerOrCaller(booking, identity), msg); err != nil {
		logger.WithContext(ctx).Error("Failed to send booking deletion notification",
			"error", err, "booking_id", id)
	}
	return nil
}

// authorizedBooking loads a booking the caller may change: staff may change
// any booking, guests only their own.
func (s *BookingService) authorizedBooking(ctx context.Context, identity models.Identity, id int64) (*models.Booking, error) {
	if identity.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrBookingNotFound, id)
	}

	if identity.IsStaff() {
		return booking, nil
	}
	if booking.GuestAccountID == nil || *booking.GuestAccountID != identity.UserID {
		return nil, apperrors.ErrForbidden
	}
	return booking, nil
}

func ownerOrCaller(b *models.Booking, identity models.Identity) string {
	if b.GuestAccountID != nil {
		return *b.GuestAccountID
	}
	return identity.UserID
}

// ListBookings returns the caller's bookings, latest checkout first.
func (s *BookingService) ListBookings(ctx context.Context, identity models.Identity, page, pageSize int) (models.Page[models.BookingResponse], error) {
	if identity.UserID == "" {
		return models.Page[models.BookingResponse]{}, apperrors.ErrUnauthorized
	}
	page, pageSize = normalizePage(page, pageSize, defaultBookingPageSize)

	bookings, total, err := s.bookings.ListByAccount(ctx, identity.UserID, page, pageSize)
	if err != nil {
		return models.Page[models.BookingResponse]{}, fmt.Errorf("failed to list bookings: %w", err)
	}

	items := make([]models.BookingResponse, len(bookings))
	for i := range bookings {
		items[i] = s.toResponse(&bookings[i])
	}
	return models.NewPage(items, total, page, pageSize), nil
}

// PreviewTotal prices a stay without reserving anything.
func (s *BookingService) PreviewTotal(ctx context.Context, roomID int64, checkinDate, checkoutDate string) (*models.TotalPriceResponse, error) {
	checkin, checkout, err := pricing.ParseStay(checkinDate, checkoutDate)
	if err != nil {
		return nil, err
	}

	rate, err := s.ledger.GetRate(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room rate: %w", err)
	}
	if rate == nil {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, roomID)
	}

	total, err := s.calculate(checkin, checkout, rate.PricePerNight)
	if err != nil {
		return nil, err
	}

	return &models.TotalPriceResponse{
		RoomID:        roomID,
		Nights:        pricing.Nights(checkin, checkout),
		PricePerNight: rate.PricePerNight.StringFixed(2),
		TotalPrice:    total.StringFixed(2),
	}, nil
}

func (s *BookingService) RoomStatus(ctx context.Context, roomID int64) (models.RoomStatus, error) {
	return s.ledger.StatusOf(ctx, roomID)
}

func (s *BookingService) toResponse(b *models.Booking) models.BookingResponse {
	resp := models.BookingResponse{
		ID:           b.ID,
		GuestName:    b.GuestName,
		RoomID:       b.RoomID,
		RoomNumber:   b.RoomNumber,
		CheckinDate:  b.CheckinDate.Format(models.DateLayout),
		CheckoutDate: b.CheckoutDate.Format(models.DateLayout),
		TotalPrice:   b.TotalPrice.StringFixed(2),
		IsEnd:        b.CheckoutDate.Before(s.today()),
	}
	if b.Payment != nil {
		resp.PaymentMethod = string(b.Payment.Method)
		resp.PaymentStatus = string(b.Payment.StatusDone)
	}
	return resp
}

// notify calls the notifier with a bounded timeout, detached from the
// caller's cancellation.
func (s *BookingService) notify(ctx context.Context, userID, message string) error {
	if s.notifier == nil {
		return nil
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.NotifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(nctx, userID, message); err != nil {
		metrics.NotificationFailures.Inc()
		return err
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, subject string, event interface{}, fields ...any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, event); err != nil {
		args := append([]any{"error", err, "event_type", subject}, fields...)
		logger.WithContext(ctx).Error("Failed to publish event", args...)
	}
}
