package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/logger"
	"elitestay/internal/metrics"
	"elitestay/internal/models"

	"golang.org/x/sync/errgroup"
)

var errNoGuestAccount = errors.New("guest has no linked account")

// SweepScope resolves which hotels the caller may reconcile: nil means all.
func (s *BookingService) SweepScope(ctx context.Context, identity models.Identity) (*int64, error) {
	switch identity.Role {
	case models.RoleAdmin:
		return nil, nil
	case models.RoleAdminHotel:
		hotelID, ok, err := s.scopes.HotelIDForAccount(ctx, identity.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve operator hotel: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: account %s manages no hotel", apperrors.ErrForbidden, identity.UserID)
		}
		return &hotelID, nil
	}
	return nil, apperrors.ErrForbidden
}

// ReconcileExpiredBookings releases every occupied room whose booking checked
// out on or before now, then notifies the operator and the guest. Rooms are
// processed independently; per-room failures land in the report.
func (s *BookingService) ReconcileExpiredBookings(ctx context.Context, now time.Time, hotelID *int64, operatorID string) (*models.ReconciliationReport, error) {
	y, m, d := now.UTC().Date()
	asOf := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	report := &models.ReconciliationReport{
		Scope:    "all",
		HotelID:  hotelID,
		Released: []models.ReleasedRoom{},
		Failures: []models.ReconcileFailure{},
	}
	if hotelID != nil {
		report.Scope = "hotel"
	}

	expired, err := s.bookings.FindExpired(ctx, asOf, hotelID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired bookings: %w", err)
	}
	report.Scanned = len(expired)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.opts.ReconcileWorkers)

	for _, e := range expired {
		g.Go(func() error {
			released, failures := s.reconcileOne(ctx, e, asOf, operatorID)

			mu.Lock()
			defer mu.Unlock()
			if released != nil {
				report.Released = append(report.Released, *released)
			}
			report.Failures = append(report.Failures, failures...)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Released, func(i, j int) bool {
		return report.Released[i].BookingID < report.Released[j].BookingID
	})
	sort.SliceStable(report.Failures, func(i, j int) bool {
		return report.Failures[i].BookingID < report.Failures[j].BookingID
	})

	logger.WithContext(ctx).Info("Reconciliation finished",
		"scope", report.Scope,
		"scanned", report.Scanned,
		"released", len(report.Released),
		"failures", len(report.Failures))

	return report, nil
}

func (s *BookingService) reconcileOne(ctx context.Context, e models.ExpiredBooking, asOf time.Time, operatorID string) (*models.ReleasedRoom, []models.ReconcileFailure) {
	var failures []models.ReconcileFailure
	fail := func(stage models.ReconcileStage, err error) {
		metrics.ReconcileFailures.WithLabelValues(string(stage)).Inc()
		logger.WithContext(ctx).Error("Reconciliation step failed",
			"stage", stage, "error", err, "booking_id", e.BookingID, "room_id", e.RoomID)
		failures = append(failures, models.ReconcileFailure{
			BookingID: e.BookingID,
			RoomID:    e.RoomID,
			Stage:     stage,
			Error:     err.Error(),
		})
	}

	ok, err := s.ledger.ReleaseIdle(ctx, e.RoomID, asOf, e.BookingID)
	if err != nil {
		fail(models.StageRelease, err)
		return nil, failures
	}
	if !ok {
		// released by an overlapping sweep or reserved again since the scan
		logger.WithContext(ctx).Info("Room already handled, skipping",
			"booking_id", e.BookingID, "room_id", e.RoomID)
		return nil, nil
	}
	metrics.RoomsReleased.Inc()
	released := &models.ReleasedRoom{BookingID: e.BookingID, RoomID: e.RoomID, RoomNumber: e.RoomNumber}

	s.publish(ctx, models.EventRoomReleased, models.RoomReleasedEvent{
		RoomID:     e.RoomID,
		RoomNumber: e.RoomNumber,
		HotelID:    e.HotelID,
		BookingID:  e.BookingID,
		Timestamp:  time.Now(),
	}, "booking_id", e.BookingID, "room_id", e.RoomID)

	if err := s.notify(ctx, operatorID, fmt.Sprintf("Room %s is now available.", e.RoomNumber)); err != nil {
		fail(models.StageNotifyOperator, err)
	}

	if e.GuestAccountID == nil {
		fail(models.StageNotifyGuest, errNoGuestAccount)
	} else if err := s.notify(ctx, *e.GuestAccountID, fmt.Sprintf("Your booking in room %s has ended.", e.RoomNumber)); err != nil {
		fail(models.StageNotifyGuest, err)
	}

	if s.opts.PurgeExpired {
		if err := s.bookings.Delete(ctx, e.BookingID); err != nil {
			fail(models.StagePurge, err)
		} else {
			released.Purged = true
		}
	}

	return released, failures
}
