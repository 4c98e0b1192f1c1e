package service

import (
	"context"
	"time"

	"elitestay/internal/models"
	"elitestay/internal/repository"

	"github.com/shopspring/decimal"
)

// EventPublisher is satisfied by *messaging.NATSClient.
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

// RoomLedger owns room availability. TryReserve must be a single atomic
// check-and-set.
type RoomLedger interface {
	TryReserve(ctx context.Context, roomID int64) error
	Release(ctx context.Context, roomID int64) error
	ReleaseIdle(ctx context.Context, roomID int64, asOf time.Time, exceptBookingID int64) (bool, error)
	StatusOf(ctx context.Context, roomID int64) (models.RoomStatus, error)
	GetRate(ctx context.Context, roomID int64) (*models.RoomRate, error)
}

type GuestStore interface {
	Resolve(ctx context.Context, g *models.Guest) (*models.Guest, error)
}

type BookingStore interface {
	CreateWithPayment(ctx context.Context, booking *models.Booking, payment *models.Payment) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]models.Booking, int, error)
	UpdateDates(ctx context.Context, id int64, checkin, checkout time.Time, total decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
	FindExpired(ctx context.Context, asOf time.Time, hotelID *int64) ([]models.ExpiredBooking, error)
}

type HotelScopeStore interface {
	HotelIDForAccount(ctx context.Context, accountID string) (int64, bool, error)
}

// Notifier delivers a message to one account.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

type Options struct {
	NotifyTimeout       time.Duration
	PurgeExpired        bool
	ReconcileWorkers    int
	RecommendationLimit int
}

type Services struct {
	Bookings        *BookingService
	Recommendations *RecommendationService
	RoomTypes       *RoomTypeService
	Notifications   *NotificationService
	Preferences     *PreferenceService
	Payments        *PaymentService
	Ratings         *RatingService
}

// NewServices wires services over the repositories. cache and indexer are
// optional and may be nil.
func NewServices(repos *repository.Repositories, publisher EventPublisher, cache RecommendationCache, indexer RoomTypeIndexer, opts Options) *Services {
	notifications := NewNotificationService(repos.Notifications, publisher)
	recommendations := NewRecommendationService(repos.RoomTypes, repos.Hotels, repos.Rooms, repos.Preferences, cache, opts.RecommendationLimit)
	bookings := NewBookingService(repos.Rooms, repos.Bookings, repos.Guests, repos.AdminHotels, notifications, publisher, opts)

	return &Services{
		Bookings:        bookings,
		Recommendations: recommendations,
		RoomTypes:       NewRoomTypeService(repos.RoomTypes, indexer, recommendations),
		Notifications:   notifications,
		Preferences:     NewPreferenceService(repos.Preferences),
		Payments:        NewPaymentService(repos.Payments, repos.AdminHotels),
		Ratings:         NewRatingService(repos.Ratings, repos.Hotels),
	}
}

// normalizePage clamps paging input so that (page-1)*pageSize cannot
// overflow.
func normalizePage(page, pageSize, defaultSize int) (int, int) {
	page = min(max(page, 1), models.MaxPage)
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, min(pageSize, models.MaxPageSize)
}
