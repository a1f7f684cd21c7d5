package set_slot_mode

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	setSlotMode "github.com/m04kA/SMC-TutorBooking/internal/usecase/set_slot_mode"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidPath        = "некорректные параметры слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный слот, режим или смещение недели"
	msgForbidden          = "изменять расписание может только сам преподаватель"
	msgSlotInPast         = "прошедшие слоты нельзя изменять"
	msgSlotBooked         = "на слот есть активное бронирование, закрыть его нельзя"
)

type Handler struct {
	useCase SetSlotModeUseCase
	logger  Logger
}

func NewHandler(useCase SetSlotModeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/availability/{weekOffset}/slots/{slotLabel}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /providers/{id}/availability/{offset}/slots/{slot}"

	req, ok := h.parse(w, r, route)
	if !ok {
		return
	}

	var body SetSlotModeRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Mode = body.Mode

	result, err := h.useCase.Execute(r.Context(), req)
	h.respond(w, route, req, result, err)
}

// Toggle POST /api/v1/providers/{providerId}/availability/{weekOffset}/slots/{slotLabel}/toggle
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	const route = "POST /providers/{id}/availability/{offset}/slots/{slot}/toggle"

	req, ok := h.parse(w, r, route)
	if !ok {
		return
	}

	result, err := h.useCase.Toggle(r.Context(), req)
	h.respond(w, route, req, result, err)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request, route string) (*setSlotMode.Request, bool) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing identity", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return nil, false
	}

	req, err := slotFromPath(r, caller)
	if err != nil {
		h.logger.Warn("%s - Invalid path parameters: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return nil, false
	}
	return req, true
}

func (h *Handler) respond(w http.ResponseWriter, route string, req *setSlotMode.Request, result *setSlotMode.Response, err error) {
	if err != nil {
		switch {
		case errors.Is(err, setSlotMode.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: provider_id=%s, slot=%s, error=%v", route, req.ProviderID, req.SlotLabel, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, setSlotMode.ErrNotPermitted):
			h.logger.Warn("%s - Not permitted: provider_id=%s, user_id=%s", route, req.ProviderID, req.Caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, setSlotMode.ErrSlotInPast):
			h.logger.Warn("%s - Slot in past: provider_id=%s, week_offset=%d, slot=%s",
				route, req.ProviderID, req.WeekOffset, req.SlotLabel)
			handlers.RespondUnprocessable(w, msgSlotInPast)

		case errors.Is(err, setSlotMode.ErrSlotBooked):
			h.logger.Warn("%s - Slot booked: provider_id=%s, week_offset=%d, slot=%s",
				route, req.ProviderID, req.WeekOffset, req.SlotLabel)
			handlers.RespondConflict(w, msgSlotBooked)

		default:
			h.logger.Error("%s - Failed to update slot: provider_id=%s, slot=%s, error=%v", route, req.ProviderID, req.SlotLabel, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Slot updated: provider_id=%s, week_offset=%d, slot=%s, mode=%s",
		route, result.ProviderID, result.WeekOffset, result.SlotLabel, result.Mode)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
