package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// CancelOutcome результат отмены бронирования
type CancelOutcome string

const (
	OutcomeCancelled        CancelOutcome = "cancelled"
	OutcomeNotFound         CancelOutcome = "not_found"
	OutcomeAlreadyCancelled CancelOutcome = "already_cancelled"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Caller    domain.Identity
	BookingID uuid.UUID
}

// GetClaimantBookingsRequest запрос на получение бронирований студента
type GetClaimantBookingsRequest struct {
	Caller           domain.Identity
	ClaimantID       uuid.UUID
	IncludeCancelled bool
}

// GetProviderBookingsRequest запрос на получение бронирований преподавателя
type GetProviderBookingsRequest struct {
	Caller           domain.Identity
	ProviderID       uuid.UUID
	FromWeekOffset   *int // Начало диапазона недель (опционально)
	ToWeekOffset     *int // Конец диапазона недель включительно (опционально)
	IncludeCancelled bool
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"providerId"`
	ClaimantID uuid.UUID `json:"claimantId"`
	WeekOffset int       `json:"weekOffset"` // Относительно текущей недели на момент ответа
	SlotLabel  string    `json:"slotLabel"`  // "Wed-14:00"
	SlotStart  time.Time `json:"slotStart"`
	DateLabel  string    `json:"dateLabel"` // "Wed, Oct 14 14:00"
	Mode       string    `json:"mode"`
	Status     string    `json:"status"`

	// Денормализованные данные из ProfileService
	ProviderName  *string `json:"providerName,omitempty"`
	ClaimantName  *string `json:"claimantName,omitempty"`
	ClaimantEmail *string `json:"claimantEmail,omitempty"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancelBookingResponse ответ на отмену бронирования
type CancelBookingResponse struct {
	Outcome CancelOutcome    `json:"outcome"`
	Booking *BookingResponse `json:"booking,omitempty"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, weekOffset int, slotStart time.Time) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:         b.ID,
		ProviderID: b.ProviderID,
		ClaimantID: b.ClaimantID,
		WeekOffset: weekOffset,
		SlotLabel:  b.SlotLabel.String(),
		SlotStart:  slotStart,
		DateLabel:  slotStart.Format(domain.DateLabelFormat),
		Mode:       string(b.Mode),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}
