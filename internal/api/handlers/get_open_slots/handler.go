package get_open_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	getOpenSlots "github.com/m04kA/SMC-TutorBooking/internal/usecase/get_open_slots"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
	msgInvalidRange  = "некорректный диапазон недель"
)

type Handler struct {
	useCase GetOpenSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetOpenSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/open-slots
// Query params: providerId, fromWeekOffset, weeks (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := ToUseCaseRequest(r)
	if err != nil {
		h.logger.Warn("GET /open-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getOpenSlots.ErrInvalidInput):
			h.logger.Warn("GET /open-slots - Invalid range: from_week_offset=%d, weeks=%d",
				useCaseReq.FromWeekOffset, useCaseReq.Weeks)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /open-slots - Failed to get open slots: from_week_offset=%d, weeks=%d, error=%v",
				useCaseReq.FromWeekOffset, useCaseReq.Weeks, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /open-slots - Slots retrieved successfully: from_week_offset=%d, weeks=%d, slots_count=%d",
		result.FromWeekOffset, result.Weeks, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
