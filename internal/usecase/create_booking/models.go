package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Caller     domain.Identity
	ProviderID uuid.UUID // ID преподавателя
	WeekOffset int       // Смещение недели относительно текущей
	SlotLabel  string    // Метка слота, например "Wed-14:00"
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking    *domain.Booking
	WeekOffset int
	SlotStart  time.Time // Начало слота в часовом поясе расписания
	DateLabel  string    // Например "Wed, Oct 14 14:00"
}
