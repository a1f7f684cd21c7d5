package create_booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// validateRequest проверяет входные данные запроса
func (uc *UseCase) validateRequest(req *Request) (domain.SlotLabel, error) {
	if req.ProviderID == uuid.Nil {
		return "", fmt.Errorf("%w: provider id is required", ErrInvalidInput)
	}

	if !uc.window.Contains(req.WeekOffset) {
		return "", fmt.Errorf("%w: week offset %d is out of range [-%d, %d]",
			ErrInvalidInput, req.WeekOffset, uc.window.MaxPastWeeks, uc.window.MaxFutureWeeks)
	}

	label, err := uc.projector.ParseLabel(req.SlotLabel)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return label, nil
}

// validateCaller бронировать могут только студенты
func validateCaller(caller domain.Identity) error {
	if !caller.IsClaimant() || caller.UserID == uuid.Nil {
		return ErrNotPermitted
	}
	return nil
}
