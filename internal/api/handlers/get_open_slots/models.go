package get_open_slots

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	getOpenSlots "github.com/m04kA/SMC-TutorBooking/internal/usecase/get_open_slots"
)

// OpenSlotsResponse HTTP response model
type OpenSlotsResponse struct {
	FromWeekOffset int        `json:"fromWeekOffset"`
	Weeks          int        `json:"weeks"`
	Slots          []OpenSlot `json:"slots"`
}

// OpenSlot модель свободного слота
type OpenSlot struct {
	ProviderID   uuid.UUID `json:"providerId"`
	ProviderName *string   `json:"providerName,omitempty"`
	WeekOffset   int       `json:"weekOffset"`
	SlotLabel    string    `json:"slotLabel"`
	Mode         string    `json:"mode"`
	SlotStart    string    `json:"slotStart"`
	DateLabel    string    `json:"dateLabel"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров providerId, fromWeekOffset, weeks
func ToUseCaseRequest(r *http.Request) (*getOpenSlots.Request, error) {
	providerID, err := handlers.QueryUUID(r, "providerId")
	if err != nil {
		return nil, err
	}

	from, err := handlers.QueryInt(r, "fromWeekOffset")
	if err != nil {
		return nil, err
	}

	weeks, err := handlers.QueryInt(r, "weeks")
	if err != nil {
		return nil, err
	}

	req := &getOpenSlots.Request{ProviderID: providerID}
	if from != nil {
		req.FromWeekOffset = *from
	}
	if weeks != nil {
		req.Weeks = *weeks
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getOpenSlots.Response) *OpenSlotsResponse {
	slots := make([]OpenSlot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, OpenSlot{
			ProviderID:   s.ProviderID,
			ProviderName: s.ProviderName,
			WeekOffset:   s.WeekOffset,
			SlotLabel:    s.SlotLabel.String(),
			Mode:         string(s.Mode),
			SlotStart:    s.SlotStart.Format(time.RFC3339),
			DateLabel:    s.DateLabel,
		})
	}

	return &OpenSlotsResponse{
		FromWeekOffset: resp.FromWeekOffset,
		Weeks:          resp.Weeks,
		Slots:          slots,
	}
}
