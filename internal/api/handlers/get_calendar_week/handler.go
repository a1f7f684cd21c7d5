package get_calendar_week

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/service/availability"
)

const (
	msgInvalidWeekOffset = "некорректное смещение недели"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar/weeks/{weekOffset}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	weekOffset, err := handlers.PathInt(r, "weekOffset")
	if err != nil {
		h.logger.Warn("GET /calendar/weeks/{offset} - Invalid week offset: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekOffset)
		return
	}

	result, err := h.service.CalendarWeek(weekOffset)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidInput) {
			h.logger.Warn("GET /calendar/weeks/{offset} - Week offset out of range: %d", weekOffset)
			handlers.RespondBadRequest(w, msgInvalidWeekOffset)
			return
		}
		h.logger.Error("GET /calendar/weeks/{offset} - Failed to build week: week_offset=%d, error=%v", weekOffset, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
