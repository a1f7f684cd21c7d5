package copy_forward

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// AvailabilityRepository интерфейс репозитория доступности
type AvailabilityRepository interface {
	GetWeek(ctx context.Context, providerID uuid.UUID, week domain.Week) (domain.WeekAvailability, error)
	UpsertWeek(ctx context.Context, providerID uuid.UUID, week domain.Week, slots domain.WeekAvailability, updatedAt time.Time) (int, error)
}

// WeekCache интерфейс кэша недельной доступности
type WeekCache interface {
	Invalidate(ctx context.Context, providerID uuid.UUID, week domain.Week) error
}

// Metrics интерфейс для учета скопированных недель
type Metrics interface {
	RecordPropagatedWeek(status string)
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
