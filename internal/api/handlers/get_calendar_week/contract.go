package get_calendar_week

import (
	"github.com/m04kA/SMC-TutorBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	CalendarWeek(weekOffset int) (*models.CalendarWeekResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
