package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusActive              BookingStatus = "active"
	StatusCancelledByClaimant BookingStatus = "cancelled_by_claimant"
	StatusCancelledByProvider BookingStatus = "cancelled_by_provider"
)

// Booking assignment of a claimant to a provider's slot in a concrete week
type Booking struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	ClaimantID uuid.UUID
	Week       Week
	SlotLabel  SlotLabel
	Mode       Mode // snapshot taken at booking time
	Status     BookingStatus

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CancelledAt *time.Time
}

// IsActive returns true if the booking still holds its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// IsCancelled returns true if the booking has been cancelled by either side
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByClaimant || b.Status == StatusCancelledByProvider
}

// Key returns the slot the booking occupies
func (b *Booking) Key() SlotKey {
	return SlotKey{ProviderID: b.ProviderID, Week: b.Week, SlotLabel: b.SlotLabel}
}

// IsParticipant returns true for the booking's claimant and provider
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.ClaimantID == userID || b.ProviderID == userID
}

// BookingsFilter фильтр для списков бронирований
type BookingsFilter struct {
	ProviderID      *uuid.UUID // опционально
	ClaimantID      *uuid.UUID // опционально
	FromWeek        *Week      // опционально, включительно
	ToWeek          *Week      // опционально, включительно
	IncludeInactive bool       // включать отмененные бронирования
}

// InactiveStatuses statuses that no longer hold a slot
var InactiveStatuses = []BookingStatus{
	StatusCancelledByClaimant,
	StatusCancelledByProvider,
}
