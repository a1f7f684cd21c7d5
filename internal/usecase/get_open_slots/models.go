package get_open_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// Request модель запроса на поиск свободных слотов
type Request struct {
	ProviderID     *uuid.UUID // nil = все преподаватели
	FromWeekOffset int
	Weeks          int // 0 = одна неделя
}

// Response модель ответа со списком свободных слотов
type Response struct {
	FromWeekOffset int
	Weeks          int
	Slots          []Slot
}

// Slot свободный слот, который можно забронировать
type Slot struct {
	ProviderID   uuid.UUID
	ProviderName *string // nil при недоступности ProfileService
	WeekOffset   int
	SlotLabel    domain.SlotLabel
	Mode         domain.Mode
	SlotStart    time.Time
	DateLabel    string // "Wed, Oct 14 14:00"
}
