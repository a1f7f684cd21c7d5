package set_slot_mode

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// Request модель запроса на установку режима слота
type Request struct {
	Caller     domain.Identity
	ProviderID uuid.UUID
	WeekOffset int    // Смещение недели относительно текущей
	SlotLabel  string // Метка слота, например "Mon-09:00"
	Mode       string // Новый режим; для Toggle не используется
}

// Response модель ответа с актуальным режимом слота
type Response struct {
	ProviderID uuid.UUID
	WeekOffset int
	Week       domain.Week
	SlotLabel  domain.SlotLabel
	Mode       domain.Mode
	SlotStart  time.Time // Начало слота в часовом поясе расписания
	UpdatedAt  time.Time
}
