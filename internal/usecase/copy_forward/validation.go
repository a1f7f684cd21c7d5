package copy_forward

import (
	"fmt"

	"github.com/google/uuid"
)

// validateRequest проверяет входные данные запроса
func (uc *UseCase) validateRequest(req *Request) error {
	if req.ProviderID == uuid.Nil {
		return fmt.Errorf("%w: provider id is required", ErrInvalidInput)
	}

	if req.WeeksAhead < 1 || req.WeeksAhead > uc.maxWeeks {
		return fmt.Errorf("%w: weeksAhead must be between 1 and %d, got %d", ErrInvalidInput, uc.maxWeeks, req.WeeksAhead)
	}

	if !uc.window.Contains(req.SourceWeekOffset) {
		return fmt.Errorf("%w: source week offset %d is out of range", ErrInvalidInput, req.SourceWeekOffset)
	}

	if last := req.SourceWeekOffset + req.WeeksAhead; !uc.window.Contains(last) {
		return fmt.Errorf("%w: target week offset %d is out of range (max %d)", ErrInvalidInput, last, uc.window.MaxFutureWeeks)
	}

	if !req.Caller.IsProviderSelf(req.ProviderID) {
		return ErrNotPermitted
	}

	return nil
}
