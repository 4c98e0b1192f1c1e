package errors

import "errors"

var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")

var (
	ErrValidation            = errors.New("validation failed")
	ErrInvalidDateRange      = errors.New("checkout date must be after checkin date")
	ErrEmptyQuery            = errors.New("search string must not be empty")
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomUnavailable       = errors.New("room is not available")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrRoomTypeNotFound      = errors.New("room type not found")
	ErrHotelNotFound         = errors.New("hotel not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrGuestResolutionFailed = errors.New("guest could not be resolved")
	ErrPersistenceFailed     = errors.New("booking could not be persisted")
	ErrAlreadyExists         = errors.New("already exists")
)

var ErrRoomTypeInUse = errors.New("room type still has rooms")
