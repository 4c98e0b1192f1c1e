package models

import "github.com/shopspring/decimal"

// CreateBookingRequest - модель для создания бронирования
type CreateBookingRequest struct {
	RoomID        int64  `json:"roomId" binding:"required"`
	CheckinDate   string `json:"checkinDate" binding:"required"`
	CheckoutDate  string `json:"checkoutDate" binding:"required"`
	PaymentMethod string `json:"method,omitempty"`
}

// UpdateBookingRequest - модель для изменения дат бронирования
type UpdateBookingRequest struct {
	CheckinDate  string `json:"checkinDate" binding:"required"`
	CheckoutDate string `json:"checkoutDate" binding:"required"`
}

// UpdatePaymentRequest - изменение платежа независимо от бронирования.
// Settled отмечает оплату на стойке.
type UpdatePaymentRequest struct {
	Amount      string `json:"amount" binding:"required"`
	PaymentDate string `json:"paymentDate" binding:"required"`
	Method      string `json:"method,omitempty"`
	Settled     bool   `json:"settled,omitempty"`
}

// PaymentResponse - платёж в ответах API
type PaymentResponse struct {
	ID          int64  `json:"id"`
	BookingID   int64  `json:"bookingId"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate"`
	Method      string `json:"method"`
	StatusDone  string `json:"statusDone"`
}

// AddRatingRequest - оценка отеля
type AddRatingRequest struct {
	HotelID int64           `json:"hotelId" binding:"required"`
	Value   decimal.Decimal `json:"ratingValue"`
}

// RatingResponse - оценка в ответах API
type RatingResponse struct {
	UserID  string `json:"userId"`
	HotelID int64  `json:"hotelId"`
	Value   string `json:"ratingValue"`
	RatedAt string `json:"ratedAt"`
}

// HotelTrend - отель в подборке популярных
type HotelTrend struct {
	HotelID     int64  `json:"hotelId"`
	RatingCount int    `json:"ratingCount"`
	MeanRating  string `json:"meanRating"`
	Hotel       Hotel  `json:"hotelDetails"`
}

// BookingResponse - бронирование в ответах API
type BookingResponse struct {
	ID            int64  `json:"id"`
	GuestName     string `json:"guestName"`
	RoomID        int64  `json:"roomId"`
	RoomNumber    string `json:"roomNumber"`
	CheckinDate   string `json:"checkinDate"`
	CheckoutDate  string `json:"checkoutDate"`
	TotalPrice    string `json:"totalPrice"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
	IsEnd         bool   `json:"isEnd"`
}

// TotalPriceResponse - предварительный расчёт стоимости
type TotalPriceResponse struct {
	RoomID        int64  `json:"roomId"`
	Nights        int    `json:"nights"`
	PricePerNight string `json:"pricePerNight"`
	TotalPrice    string `json:"totalPrice"`
}

// RoomStatusResponse - статус номера из реестра доступности
type RoomStatusResponse struct {
	RoomID int64      `json:"roomId"`
	Status RoomStatus `json:"status"`
}

// ReconcileStage names the step of the sweep that failed for a booking
type ReconcileStage string

const (
	StageRelease        ReconcileStage = "release"
	StageNotifyOperator ReconcileStage = "notify_operator"
	StageNotifyGuest    ReconcileStage = "notify_guest"
	StagePurge          ReconcileStage = "purge"
)

// ReleasedRoom - номер, освобождённый при сверке
type ReleasedRoom struct {
	BookingID  int64  `json:"bookingId"`
	RoomID     int64  `json:"roomId"`
	RoomNumber string `json:"roomNumber"`
	Purged     bool   `json:"purged"`
}

// ReconcileFailure - ошибка обработки одного бронирования при сверке
type ReconcileFailure struct {
	BookingID int64          `json:"bookingId"`
	RoomID    int64          `json:"roomId"`
	Stage     ReconcileStage `json:"stage"`
	Error     string         `json:"error"`
}

// ReconciliationReport - итог сверки просроченных бронирований
type ReconciliationReport struct {
	Scope    string             `json:"scope"`
	HotelID  *int64             `json:"hotelId,omitempty"`
	Scanned  int                `json:"scanned"`
	Released []ReleasedRoom     `json:"released"`
	Failures []ReconcileFailure `json:"failures"`
}

// Page - обёртка для постраничных списков
type Page[T any] struct {
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Data        []T `json:"data"`
}

// Pagination bounds accepted from clients.
const (
	MaxPage     = 10000
	MaxPageSize = 100
)

// NewPage builds a page; data is never serialized as null.
func NewPage[T any](data []T, totalCount, page, pageSize int) Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return Page[T]{
		TotalCount:  totalCount,
		PageSize:    pageSize,
		CurrentPage: page,
		TotalPages:  totalPages,
		Data:        data,
	}
}

// Recommendation - страница рекомендаций с пояснением
type Recommendation[T any] struct {
	Message string `json:"message"`
	Page[T]
}

// RoomTypeRequest - модель для создания и изменения типа номера
type RoomTypeRequest struct {
	Name          string `json:"name" binding:"required"`
	PricePerNight string `json:"pricePerNight" binding:"required"`
	Capacity      int    `json:"capacity"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl"`
}

// RoomTypeSearchResponse - результат поиска типов номеров
type RoomTypeSearchResponse struct {
	Items []RoomType `json:"items"`
	Total int        `json:"total"`
}
