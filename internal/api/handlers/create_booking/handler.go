package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-TutorBooking/internal/usecase/create_booking"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный слот или смещение недели"
	msgNotPermitted       = "бронировать слоты могут только студенты"
	msgSlotInPast         = "слот уже в прошлом"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
	msgSlotUnavailable    = "выбранный слот недоступен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(caller))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%s, error=%v", caller.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrNotPermitted):
			h.logger.Warn("POST /bookings - Not permitted: user_id=%s, role=%s", caller.UserID, caller.Role)
			handlers.RespondForbidden(w, msgNotPermitted)

		case errors.Is(err, createBooking.ErrSlotInPast):
			h.logger.Warn("POST /bookings - Slot in past: provider_id=%s, slot=%s", req.ProviderID, req.SlotLabel)
			handlers.RespondUnprocessable(w, msgSlotInPast)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: provider_id=%s, slot=%s", req.ProviderID, req.SlotLabel)
			handlers.RespondUnprocessable(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot not available: provider_id=%s, week_offset=%d, slot=%s",
				req.ProviderID, req.WeekOffset, req.SlotLabel)
			handlers.RespondConflict(w, msgSlotUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, provider_id=%s, error=%v",
				caller.UserID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, claimant_id=%s, provider_id=%s",
		result.Booking.ID, caller.UserID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
