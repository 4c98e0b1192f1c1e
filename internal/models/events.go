package models

import "time"

// NATS Event Types
const (
	EventBookingCreated      = "booking.created"
	EventBookingUpdated      = "booking.updated"
	EventBookingDeleted      = "booking.deleted"
	EventRoomReleased        = "room.released"
	EventNotificationCreated = "notification.created"
)

// BookingCreatedEvent carries what the consumers need to confirm a booking
type BookingCreatedEvent struct {
	BookingID    int64     `json:"booking_id"`
	RoomID       int64     `json:"room_id"`
	RoomNumber   string    `json:"room_number"`
	GuestID      int64     `json:"guest_id"`
	GuestName    string    `json:"guest_name"`
	GuestEmail   string    `json:"guest_email"`
	CheckinDate  string    `json:"checkin_date"`
	CheckoutDate string    `json:"checkout_date"`
	TotalPrice   string    `json:"total_price"`
	Timestamp    time.Time `json:"timestamp"`
}

// BookingUpdatedEvent represents a change of stay dates
type BookingUpdatedEvent struct {
	BookingID    int64     `json:"booking_id"`
	CheckinDate  string    `json:"checkin_date"`
	CheckoutDate string    `json:"checkout_date"`
	TotalPrice   string    `json:"total_price"`
	Timestamp    time.Time `json:"timestamp"`
}

// BookingDeletedEvent represents a booking removal
type BookingDeletedEvent struct {
	BookingID    int64     `json:"booking_id"`
	RoomID       int64     `json:"room_id"`
	RoomReleased bool      `json:"room_released"`
	Reason       string    `json:"reason"`
	Timestamp    time.Time `json:"timestamp"`
}

// RoomReleasedEvent is emitted when the sweep frees a room
type RoomReleasedEvent struct {
	RoomID     int64     `json:"room_id"`
	RoomNumber string    `json:"room_number"`
	HotelID    int64     `json:"hotel_id"`
	BookingID  int64     `json:"booking_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// NotificationCreatedEvent mirrors a stored user notification
type NotificationCreatedEvent struct {
	NotificationID int64     `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}
