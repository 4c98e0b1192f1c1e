package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"elitestay/internal/models"
)

// Reconciler is satisfied by *service.BookingService.
type Reconciler interface {
	ReconcileExpiredBookings(ctx context.Context, now time.Time, hotelID *int64, operatorID string) (*models.ReconciliationReport, error)
}

// BookingReconciliationJob periodically releases rooms whose bookings have
// checked out, across all hotels.
type BookingReconciliationJob struct {
	reconciler Reconciler
	interval   time.Duration
	operatorID string
	now        func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	running  sync.Mutex
}

func NewBookingReconciliationJob(reconciler Reconciler, interval time.Duration, operatorID string) *BookingReconciliationJob {
	return &BookingReconciliationJob{
		reconciler: reconciler,
		interval:   interval,
		operatorID: operatorID,
		now:        time.Now,
		done:       make(chan struct{}),
	}
}

// Start begins the background job. A sweep runs immediately and then every
// interval.
func (j *BookingReconciliationJob) Start(ctx context.Context) {
	slog.Info("Starting booking reconciliation job", "check_interval", j.interval.String(), "operator_id", j.operatorID)

	j.ticker = time.NewTicker(j.interval)

	// Run initial check immediately
	go j.check(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.check(ctx)
			case <-j.done:
				slog.Info("Booking reconciliation job stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully stops the background job. Repeated calls are no-ops.
func (j *BookingReconciliationJob) Stop() {
	j.stopOnce.Do(func() {
		if j.ticker != nil {
			j.ticker.Stop()
		}
		close(j.done)
	})
}

// check runs one sweep; a sweep still in progress makes it a no-op.
func (j *BookingReconciliationJob) check(ctx context.Context) {
	if !j.running.TryLock() {
		slog.Warn("Previous reconciliation still running, skipping tick")
		return
	}
	defer j.running.Unlock()

	report, err := j.reconciler.ReconcileExpiredBookings(ctx, j.now(), nil, j.operatorID)
	if err != nil {
		slog.Error("Failed to reconcile expired bookings", "error", err)
		return
	}

	if report.Scanned == 0 {
		slog.Debug("No expired bookings found")
		return
	}

	for _, f := range report.Failures {
		slog.Error("Failed to reconcile booking",
			"booking_id", f.BookingID,
			"room_id", f.RoomID,
			"stage", f.Stage,
			"error", f.Error)
	}

	slog.Info("Reconciled expired bookings",
		"scanned", report.Scanned,
		"released", len(report.Released),
		"failures", len(report.Failures))
}
