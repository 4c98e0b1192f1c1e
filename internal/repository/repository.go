package repository

import (
	"errors"

	"elitestay/internal/database"

	"github.com/lib/pq"
)

type Repositories struct {
	Rooms         *RoomRepository
	RoomTypes     *RoomTypeRepository
	Hotels        *HotelRepository
	Guests        *GuestRepository
	Bookings      *BookingRepository
	Preferences   *PreferenceRepository
	AdminHotels   *AdminHotelRepository
	Notifications *NotificationRepository
	Payments      *PaymentRepository
	Ratings       *RatingRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Rooms:         NewRoomRepository(db),
		RoomTypes:     NewRoomTypeRepository(db),
		Hotels:        NewHotelRepository(db),
		Guests:        NewGuestRepository(db),
		Bookings:      NewBookingRepository(db),
		Preferences:   NewPreferenceRepository(db),
		AdminHotels:   NewAdminHotelRepository(db),
		Notifications: NewNotificationRepository(db),
		Payments:      NewPaymentRepository(db),
		Ratings:       NewRatingRepository(db),
	}
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
