package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// AvailabilityRepository интерфейс репозитория доступности
type AvailabilityRepository interface {
	GetWeek(ctx context.Context, providerID uuid.UUID, week domain.Week) (domain.WeekAvailability, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// WeekCache интерфейс кэша недельной доступности
type WeekCache interface {
	Get(ctx context.Context, providerID uuid.UUID, week domain.Week) (domain.WeekAvailability, int64, bool, error)
	Set(ctx context.Context, providerID uuid.UUID, week domain.Week, slots domain.WeekAvailability, version int64) (bool, error)
}

// Metrics интерфейс для учета попаданий в кэш
type Metrics interface {
	RecordCacheLookup(result string)
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
