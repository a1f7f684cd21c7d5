package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrNotPermitted возвращается, когда у пользователя нет прав на бронирование
	ErrNotPermitted = errors.New("bookings: not permitted")

	// ErrTooLateToCancel возвращается, когда до начала слота меньше min_cancel_notice_minutes
	ErrTooLateToCancel = errors.New("bookings: too late to cancel this booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
