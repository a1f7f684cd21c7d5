package get_provider_bookings

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// fromWeekOffset, toWeekOffset, includeCancelled
func ToServiceRequest(r *http.Request, caller domain.Identity, providerID uuid.UUID) (*models.GetProviderBookingsRequest, error) {
	from, err := handlers.QueryInt(r, "fromWeekOffset")
	if err != nil {
		return nil, err
	}

	to, err := handlers.QueryInt(r, "toWeekOffset")
	if err != nil {
		return nil, err
	}

	includeCancelled, err := handlers.QueryBool(r, "includeCancelled")
	if err != nil {
		return nil, err
	}

	return &models.GetProviderBookingsRequest{
		Caller:           caller,
		ProviderID:       providerID,
		FromWeekOffset:   from,
		ToWeekOffset:     to,
		IncludeCancelled: includeCancelled,
	}, nil
}
