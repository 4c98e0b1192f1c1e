package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format for stay dates.
const DateLayout = "2006-01-02"

type RoomStatus string

const (
	RoomAvailable RoomStatus = "Available"
	RoomOccupied  RoomStatus = "Occupied"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
)

type PaymentStatus string

const (
	PaymentDone    PaymentStatus = "YES"
	PaymentPending PaymentStatus = "NO"
)

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleAdminHotel Role = "AdminHotel"
	RoleNormal     Role = "Normal"
)

// Identity is the authenticated caller as established by the auth middleware.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   Role   `json:"role"`
}

func (i Identity) IsStaff() bool {
	return i.Role == RoleAdmin || i.Role == RoleAdminHotel
}

// Hotel represents a property that owns rooms
type Hotel struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Stars     int       `json:"stars" db:"stars"`
	Tags      string    `json:"tags" db:"tags"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RoomType describes a category of rooms and carries the nightly rate
type RoomType struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	PricePerNight decimal.Decimal `json:"price_per_night" db:"price_per_night"`
	Capacity      int             `json:"capacity" db:"capacity"`
	Description   string          `json:"description" db:"description"`
	ImageURL      string          `json:"image_url" db:"image_url"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Room is a bookable unit; Status is owned by the availability ledger
type Room struct {
	ID         int64      `json:"id" db:"id"`
	HotelID    int64      `json:"hotel_id" db:"hotel_id"`
	RoomTypeID int64      `json:"room_type_id" db:"room_type_id"`
	RoomNumber string     `json:"room_number" db:"room_number"`
	Status     RoomStatus `json:"status" db:"status"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// RoomRate is a room joined with the nightly rate of its type
type RoomRate struct {
	RoomID        int64
	HotelID       int64
	RoomNumber    string
	PricePerNight decimal.Decimal
}

// RoomView is a room with its type details, as listed to guests
type RoomView struct {
	ID            int64           `json:"id"`
	HotelID       int64           `json:"hotel_id"`
	RoomNumber    string          `json:"room_number"`
	Status        RoomStatus      `json:"status"`
	RoomTypeID    int64           `json:"room_type_id"`
	TypeName      string          `json:"type_name"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Capacity      int             `json:"capacity"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
}

// Guest is the person a booking is made for
type Guest struct {
	ID        int64     `json:"id" db:"id"`
	AccountID *string   `json:"account_id" db:"account_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Booking represents a stay of a guest in a room
type Booking struct {
	ID           int64           `json:"id" db:"id"`
	GuestID      int64           `json:"guest_id" db:"guest_id"`
	RoomID       int64           `json:"room_id" db:"room_id"`
	CheckinDate  time.Time       `json:"checkin_date" db:"checkin_date"`
	CheckoutDate time.Time       `json:"checkout_date" db:"checkout_date"`
	TotalPrice   decimal.Decimal `json:"total_price" db:"total_price"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`

	// Joined, not stored on the bookings row
	GuestName      string   `json:"guest_name,omitempty"`
	GuestAccountID *string  `json:"-"`
	RoomNumber     string   `json:"room_number,omitempty"`
	HotelID        int64    `json:"hotel_id,omitempty"`
	Payment        *Payment `json:"payment,omitempty"`
}

// Payment is created in the same transaction as its booking
type Payment struct {
	ID          int64           `json:"id" db:"id"`
	BookingID   int64           `json:"booking_id" db:"booking_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	Method      PaymentMethod   `json:"method" db:"method"`
	StatusDone  PaymentStatus   `json:"status_done" db:"status_done"`

	// Joined from the booking's room
	HotelID int64 `json:"-"`
}

// Rating is one guest's score for a hotel, from 1 to 5 in steps of 0.5
type Rating struct {
	ID      int64           `json:"id" db:"id"`
	UserID  string          `json:"user_id" db:"user_id"`
	HotelID int64           `json:"hotel_id" db:"hotel_id"`
	Value   decimal.Decimal `json:"value" db:"value"`
	RatedAt time.Time       `json:"rated_at" db:"rated_at"`
}

// HotelRatingStats aggregates the ratings of one hotel
type HotelRatingStats struct {
	HotelID int64
	Count   int
	Mean    decimal.Decimal
}

// AdminHotel links a hotel-scoped operator account to its hotel
type AdminHotel struct {
	ID        int64  `json:"id" db:"id"`
	AccountID string `json:"account_id" db:"account_id"`
	UserName  string `json:"user_name" db:"user_name"`
	HotelID   int64  `json:"hotel_id" db:"hotel_id"`
}

// UserNotification is a notification message delivered to one account
type UserNotification struct {
	ID             int64     `json:"id" db:"id"`
	NotificationID int64     `json:"notification_id" db:"notification_id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Message        string    `json:"message" db:"message"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ExpiredBooking is a candidate for the reconciliation sweep: the latest
// booking of an occupied room whose checkout date has passed.
type ExpiredBooking struct {
	BookingID      int64
	RoomID         int64
	RoomNumber     string
	HotelID        int64
	GuestID        int64
	GuestName      string
	GuestAccountID *string
	CheckoutDate   time.Time
}
