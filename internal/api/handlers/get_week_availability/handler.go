package get_week_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/service/availability"
)

const (
	msgInvalidProviderID = "некорректный ID преподавателя"
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

// Handle GET /api/v1/providers/{providerId}/availability
// Query params: weekOffset (опционально, по умолчанию текущая неделя)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathUUID(r, "providerId")
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	weekOffset := 0
	offset, err := handlers.QueryInt(r, "weekOffset")
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid week offset: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekOffset)
		return
	}
	if offset != nil {
		weekOffset = *offset
	}

	result, err := h.service.GetWeek(r.Context(), providerID, weekOffset)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /providers/{id}/availability - Invalid input: provider_id=%s, week_offset=%d, error=%v",
				providerID, weekOffset, err)
			handlers.RespondBadRequest(w, msgInvalidWeekOffset)

		default:
			h.logger.Error("GET /providers/{id}/availability - Failed to get week: provider_id=%s, week_offset=%d, error=%v",
				providerID, weekOffset, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/availability - Week retrieved: provider_id=%s, week_offset=%d, slots=%d, booked=%d",
		providerID, weekOffset, len(result.Slots), len(result.BookedSlots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
