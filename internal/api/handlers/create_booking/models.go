package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-TutorBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID uuid.UUID `json:"providerId"`
	WeekOffset int       `json:"weekOffset"`
	SlotLabel  string    `json:"slotLabel"` // "Wed-14:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"providerId"`
	ClaimantID uuid.UUID `json:"claimantId"`
	WeekOffset int       `json:"weekOffset"`
	SlotLabel  string    `json:"slotLabel"`
	SlotStart  string    `json:"slotStart"`
	DateLabel  string    `json:"dateLabel"`
	Mode       string    `json:"mode"`
	Status     string    `json:"status"`
	CreatedAt  string    `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(caller domain.Identity) *createBooking.Request {
	return &createBooking.Request{
		Caller:     caller,
		ProviderID: r.ProviderID,
		WeekOffset: r.WeekOffset,
		SlotLabel:  r.SlotLabel,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	b := resp.Booking
	return &BookingResponse{
		ID:         b.ID,
		ProviderID: b.ProviderID,
		ClaimantID: b.ClaimantID,
		WeekOffset: resp.WeekOffset,
		SlotLabel:  b.SlotLabel.String(),
		SlotStart:  resp.SlotStart.Format(time.RFC3339),
		DateLabel:  resp.DateLabel,
		Mode:       string(b.Mode),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}
