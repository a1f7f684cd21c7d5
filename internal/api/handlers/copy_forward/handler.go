package copy_forward

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	copyForward "github.com/m04kA/SMC-TutorBooking/internal/usecase/copy_forward"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidPath        = "некорректный ID преподавателя или смещение недели"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректное количество недель или выход за пределы окна"
	msgForbidden          = "изменять расписание может только сам преподаватель"
	msgNothingToCopy      = "в исходной неделе нет открытых слотов"
)

type Handler struct {
	useCase CopyForwardUseCase
	logger  Logger
}

func NewHandler(useCase CopyForwardUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/providers/{providerId}/availability/{weekOffset}/copy-forward
// 200 если записаны все недели, 207 при частичной ошибке, 500 если не записана ни одна
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /providers/{id}/availability/{offset}/copy-forward - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	providerID, err := handlers.PathUUID(r, "providerId")
	if err != nil {
		h.logger.Warn("POST /providers/{id}/availability/{offset}/copy-forward - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	weekOffset, err := handlers.PathInt(r, "weekOffset")
	if err != nil {
		h.logger.Warn("POST /providers/{id}/availability/{offset}/copy-forward - Invalid week offset: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	var body CopyForwardRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /providers/{id}/availability/{offset}/copy-forward - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &copyForward.Request{
		Caller:           caller,
		ProviderID:       providerID,
		SourceWeekOffset: weekOffset,
		WeeksAhead:       body.WeeksAhead,
	})
	if err != nil {
		switch {
		case errors.Is(err, copyForward.ErrInvalidInput):
			h.logger.Warn("POST /providers/{id}/availability/{offset}/copy-forward - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, copyForward.ErrNotPermitted):
			h.logger.Warn("POST /providers/{id}/availability/{offset}/copy-forward - Not permitted: provider_id=%s, user_id=%s",
				providerID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, copyForward.ErrNothingToCopy):
			h.logger.Warn("POST /providers/{id}/availability/{offset}/copy-forward - Nothing to copy: provider_id=%s, week_offset=%d",
				providerID, weekOffset)
			handlers.RespondConflict(w, msgNothingToCopy)

		default:
			h.logger.Error("POST /providers/{id}/availability/{offset}/copy-forward - Failed: provider_id=%s, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	switch {
	case result.AllFailed():
		status = http.StatusInternalServerError
	case result.Failed() > 0:
		status = http.StatusMultiStatus
	}

	h.logger.Info("POST /providers/{id}/availability/{offset}/copy-forward - Done: provider_id=%s, weeks=%d, failed=%d",
		providerID, len(result.Weeks), result.Failed())
	handlers.RespondJSON(w, status, FromUseCaseResult(result))
}
