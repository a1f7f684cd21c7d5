package models

import (
	"time"

	"github.com/google/uuid"
)

// DayResponse день недели с датой
type DayResponse struct {
	Day      string `json:"day"`      // "Mon"
	FullName string `json:"fullName"` // "Monday"
	Date     string `json:"date"`     // "2026-10-12"
}

// CalendarWeekResponse сетка недели для навигации
type CalendarWeekResponse struct {
	WeekOffset int           `json:"weekOffset"`
	WeekStart  time.Time     `json:"weekStart"`
	WeekEnd    time.Time     `json:"weekEnd"`
	Timezone   string        `json:"timezone"`
	Days       []DayResponse `json:"days"`
	TimeSlots  []string      `json:"timeSlots"` // "08:00", "08:30", ...
}

// WeekAvailabilityResponse доступность преподавателя на неделю
// В Slots только явно сохраненные слоты; отсутствующий слот недоступен.
type WeekAvailabilityResponse struct {
	CalendarWeekResponse
	ProviderID  uuid.UUID         `json:"providerId"`
	Slots       map[string]string `json:"slots"`       // "Mon-09:00" -> "onsite"
	BookedSlots []string          `json:"bookedSlots"` // Слоты с активным бронированием
}
