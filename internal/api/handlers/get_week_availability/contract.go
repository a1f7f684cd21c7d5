package get_week_availability

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	GetWeek(ctx context.Context, providerID uuid.UUID, weekOffset int) (*models.WeekAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
