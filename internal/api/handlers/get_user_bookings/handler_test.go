package get_user_bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/bookings"
	"github.com/m04kA/SMC-TutorBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetClaimantBookings(ctx context.Context, req *models.GetClaimantBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.BookingListResponse)
	return resp, args.Error(1)
}

func newRequest(caller *domain.Identity, userID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/bookings"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"userId": userID})
	if caller != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *caller))
	}
	return req
}

func TestHandle_ReturnsBookingList(t *testing.T) {
	claimant := domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant}

	svc := &mockService{}
	svc.On("GetClaimantBookings", mock.Anything, &models.GetClaimantBookingsRequest{
		Caller:           claimant,
		ClaimantID:       claimant.UserID,
		IncludeCancelled: true,
	}).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{
		{ID: uuid.New(), SlotLabel: "Mon-09:00"},
		{ID: uuid.New(), SlotLabel: "Tue-10:00"},
	}}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, newRequest(&claimant, claimant.UserID.String(), "?includeCancelled=true"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Mon-09:00", resp[0].SlotLabel)
	svc.AssertExpectations(t)
}

func TestHandle_ErrorStatuses(t *testing.T) {
	caller := domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant}

	tests := []struct {
		name  string
		query string
		err   error
		want  int
	}{
		{"other user", "", bookings.ErrNotPermitted, http.StatusForbidden},
		{"storage failure", "", errors.New("pq: too many connections"), http.StatusInternalServerError},
		{"bad includeCancelled", "?includeCancelled=maybe", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetClaimantBookings", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(svc, logger.NewNop()).Handle(rec, newRequest(&caller, uuid.NewString(), tt.query))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_BadIDAndMissingIdentity(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc, logger.NewNop())
	caller := domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant}

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(&caller, "me", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, newRequest(nil, caller.UserID.String(), ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	svc.AssertNotCalled(t, "GetClaimantBookings", mock.Anything, mock.Anything)
}
