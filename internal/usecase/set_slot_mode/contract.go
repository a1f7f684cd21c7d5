package set_slot_mode

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// AvailabilityRepository интерфейс репозитория доступности
type AvailabilityRepository interface {
	Upsert(ctx context.Context, entry domain.AvailabilityEntry) error
	GetModeForUpdate(ctx context.Context, key domain.SlotKey) (domain.Mode, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveBySlot(ctx context.Context, key domain.SlotKey) (*domain.Booking, error)
}

// WeekCache интерфейс кэша недельной доступности
type WeekCache interface {
	Invalidate(ctx context.Context, providerID uuid.UUID, week domain.Week) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
