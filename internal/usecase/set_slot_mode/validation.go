package set_slot_mode

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// validateRequest проверяет общие поля запроса
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

// checkOwner проверяет, что расписание меняет сам провайдер
func checkOwner(caller domain.Identity, providerID uuid.UUID) error {
	if !caller.IsProviderSelf(providerID) {
		return ErrNotPermitted
	}
	return nil
}
