package get_user_bookings

import (
	"context"

	"github.com/m04kA/SMC-TutorBooking/internal/service/bookings/models"
)

type BookingService interface {
	GetClaimantBookings(ctx context.Context, req *models.GetClaimantBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
