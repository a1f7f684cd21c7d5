package copy_forward

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("copy_forward: invalid input data")

	// ErrNotPermitted возвращается, когда вызывающий не владелец расписания
	ErrNotPermitted = errors.New("copy_forward: not permitted")

	// ErrNothingToCopy возвращается, когда в исходной неделе нет доступных слотов
	ErrNothingToCopy = errors.New("copy_forward: source week has no open slots")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("copy_forward: internal error")
)
