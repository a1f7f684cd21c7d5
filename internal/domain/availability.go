package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Week absolute week number: whole weeks since Monday 1970-01-05 in the schedule's location.
// Week offsets exposed by the API are converted to Week with calendar.Projector
// so persisted rows do not drift as time passes.
type Week int64

// WeekWindow allowed range of week offsets relative to the current week
type WeekWindow struct {
	MaxPastWeeks   int
	MaxFutureWeeks int
}

// Contains reports whether the offset is inside the window
func (w WeekWindow) Contains(offset int) bool {
	return offset >= -w.MaxPastWeeks && offset <= w.MaxFutureWeeks
}

// SlotKey identifies a slot of a provider in a concrete week
type SlotKey struct {
	ProviderID uuid.UUID
	Week       Week
	SlotLabel  SlotLabel
}

// AvailabilityEntry mode of a single slot
type AvailabilityEntry struct {
	ProviderID uuid.UUID
	Week       Week
	SlotLabel  SlotLabel
	Mode       Mode
	UpdatedAt  time.Time
}

// Key returns the entry's slot key
func (e *AvailabilityEntry) Key() SlotKey {
	return SlotKey{ProviderID: e.ProviderID, Week: e.Week, SlotLabel: e.SlotLabel}
}

// WeekAvailability slot label -> mode for one provider and week
// Absent labels are unavailable.
type WeekAvailability map[SlotLabel]Mode

// ModeOf returns the slot's mode, unavailable when absent
func (w WeekAvailability) ModeOf(label SlotLabel) Mode {
	if m, ok := w[label]; ok {
		return m
	}
	return ModeUnavailable
}

// Bookable returns only onsite and remote entries
func (w WeekAvailability) Bookable() WeekAvailability {
	result := make(WeekAvailability, len(w))
	for label, mode := range w {
		if mode.IsBookable() {
			result[label] = mode
		}
	}
	return result
}

// Labels returns the keys in lexical order
func (w WeekAvailability) Labels() []SlotLabel {
	labels := make([]SlotLabel, 0, len(w))
	for label := range w {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// OpenSlotsFilter range of weeks to search for bookable slots
type OpenSlotsFilter struct {
	ProviderID *uuid.UUID // nil = all providers
	FromWeek   Week
	ToWeek     Week
}
