package set_slot_mode

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("set_slot_mode: invalid input data")

	// ErrNotPermitted возвращается, когда вызывающий не владелец расписания
	ErrNotPermitted = errors.New("set_slot_mode: not permitted")

	// ErrSlotInPast возвращается при попытке изменить прошедший слот
	ErrSlotInPast = errors.New("set_slot_mode: slot is in the past")

	// ErrSlotBooked возвращается при попытке закрыть слот с активным бронированием
	ErrSlotBooked = errors.New("set_slot_mode: slot has an active booking")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("set_slot_mode: internal error")
)
