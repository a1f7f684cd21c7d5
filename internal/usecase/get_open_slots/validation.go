package get_open_slots

import "fmt"

// normalizeRequest проверяет запрос и подставляет значения по умолчанию
func (uc *UseCase) normalizeRequest(req *Request) error {
	if req.Weeks == 0 {
		req.Weeks = 1
	}

	if req.Weeks < 1 || req.Weeks > uc.maxWeeks {
		return fmt.Errorf("%w: weeks must be between 1 and %d, got %d", ErrInvalidInput, uc.maxWeeks, req.Weeks)
	}

	if !uc.window.Contains(req.FromWeekOffset) {
		return fmt.Errorf("%w: week offset %d is out of range", ErrInvalidInput, req.FromWeekOffset)
	}

	if last := req.FromWeekOffset + req.Weeks - 1; !uc.window.Contains(last) {
		return fmt.Errorf("%w: week offset %d is out of range", ErrInvalidInput, last)
	}

	return nil
}
