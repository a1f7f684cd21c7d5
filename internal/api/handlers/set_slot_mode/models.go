package set_slot_mode

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	setSlotMode "github.com/m04kA/SMC-TutorBooking/internal/usecase/set_slot_mode"
)

// SetSlotModeRequest HTTP request model
type SetSlotModeRequest struct {
	Mode string `json:"mode"` // onsite, remote, unavailable
}

// SlotModeResponse HTTP response model
type SlotModeResponse struct {
	ProviderID uuid.UUID `json:"providerId"`
	WeekOffset int       `json:"weekOffset"`
	SlotLabel  string    `json:"slotLabel"`
	Mode       string    `json:"mode"`
	SlotStart  string    `json:"slotStart"`
	UpdatedAt  string    `json:"updatedAt"`
}

// slotFromPath читает providerId, weekOffset и slotLabel из пути
func slotFromPath(r *http.Request, caller domain.Identity) (*setSlotMode.Request, error) {
	providerID, err := handlers.PathUUID(r, "providerId")
	if err != nil {
		return nil, err
	}

	weekOffset, err := handlers.PathInt(r, "weekOffset")
	if err != nil {
		return nil, err
	}

	slotLabel, err := handlers.PathString(r, "slotLabel")
	if err != nil {
		return nil, err
	}

	return &setSlotMode.Request{
		Caller:     caller,
		ProviderID: providerID,
		WeekOffset: weekOffset,
		SlotLabel:  slotLabel,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *setSlotMode.Response) *SlotModeResponse {
	return &SlotModeResponse{
		ProviderID: resp.ProviderID,
		WeekOffset: resp.WeekOffset,
		SlotLabel:  resp.SlotLabel.String(),
		Mode:       string(resp.Mode),
		SlotStart:  resp.SlotStart.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
