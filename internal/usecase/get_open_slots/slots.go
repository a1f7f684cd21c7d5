package get_open_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// filterOpen оставляет незанятые и еще не начавшиеся слоты.
// Слот с некорректной меткой пропускается.
func (uc *UseCase) filterOpen(entries []domain.AvailabilityEntry, bookings []*domain.Booking, now time.Time) []Slot {
	booked := make(map[domain.SlotKey]struct{}, len(bookings))
	for _, b := range bookings {
		booked[b.Key()] = struct{}{}
	}

	slots := make([]Slot, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if _, ok := booked[e.Key()]; ok {
			continue
		}

		start, err := uc.projector.SlotTime(e.SlotLabel, e.Week)
		if err != nil {
			uc.logger.Warn("GetOpenSlots: skipping malformed slot %q of provider=%s: %v", e.SlotLabel, e.ProviderID, err)
			continue
		}
		if start.Before(now) {
			continue
		}

		slots = append(slots, Slot{
			ProviderID: e.ProviderID,
			WeekOffset: uc.projector.OffsetOf(e.Week, now),
			SlotLabel:  e.SlotLabel,
			Mode:       e.Mode,
			SlotStart:  start,
			DateLabel:  start.Format(domain.DateLabelFormat),
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].SlotStart.Equal(slots[j].SlotStart) {
			return slots[i].SlotStart.Before(slots[j].SlotStart)
		}
		return slots[i].ProviderID.String() < slots[j].ProviderID.String()
	})

	return slots
}
