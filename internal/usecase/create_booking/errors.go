package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrNotPermitted возвращается, когда бронировать пытается не студент
	ErrNotPermitted = errors.New("create_booking: only claimants can book slots")

	// ErrSlotInPast возвращается, когда слот уже начался
	ErrSlotInPast = errors.New("create_booking: slot is in the past")

	// ErrTooLateToBook возвращается, когда до начала слота меньше min_notice_minutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotUnavailable возвращается, когда слот закрыт провайдером или уже забронирован
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// Исходы бронирования для метрики bookings_total
const (
	outcomeCreated     = "created"
	outcomeConflict    = "conflict"
	outcomeUnavailable = "unavailable"
	outcomeRejected    = "rejected"
)
