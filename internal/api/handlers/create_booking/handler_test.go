package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-TutorBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

func newRequest(t *testing.T, caller *domain.Identity, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if caller != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *caller))
	}
	return req
}

func TestHandle_Created(t *testing.T) {
	claimant := domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant}
	providerID := uuid.New()
	slotStart := time.Date(2026, 10, 14, 14, 0, 0, 0, time.UTC)

	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &createBooking.Request{
		Caller:     claimant,
		ProviderID: providerID,
		WeekOffset: 0,
		SlotLabel:  "Wed-14:00",
	}).Return(&createBooking.Response{
		Booking: &domain.Booking{
			ID:         uuid.New(),
			ProviderID: providerID,
			ClaimantID: claimant.UserID,
			SlotLabel:  "Wed-14:00",
			Mode:       domain.ModeRemote,
			Status:     domain.StatusActive,
			CreatedAt:  slotStart.Add(-2 * time.Hour),
		},
		SlotStart: slotStart,
		DateLabel: "Wed, Oct 14 14:00",
	}, nil)

	body := fmt.Sprintf(`{"providerId":%q,"weekOffset":0,"slotLabel":"Wed-14:00"}`, providerID)
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(t, &claimant, body))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Wed-14:00", resp.SlotLabel)
	assert.Equal(t, "remote", resp.Mode)
	assert.Equal(t, "2026-10-14T14:00:00Z", resp.SlotStart)
	uc.AssertExpectations(t)
}

func TestHandle_ErrorStatuses(t *testing.T) {
	claimant := domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant}
	body := fmt.Sprintf(`{"providerId":%q,"weekOffset":1,"slotLabel":"Mon-09:00"}`, uuid.New())

	tests := []struct {
		err  error
		want int
	}{
		{createBooking.ErrInvalidInput, http.StatusBadRequest},
		{createBooking.ErrNotPermitted, http.StatusForbidden},
		{createBooking.ErrSlotInPast, http.StatusUnprocessableEntity},
		{createBooking.ErrTooLateToBook, http.StatusUnprocessableEntity},
		{createBooking.ErrSlotUnavailable, http.StatusConflict},
		{createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(t, &claimant, body))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_BadRequestAndMissingIdentity(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())
	claimant := domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant}

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(t, nil, `{}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, newRequest(t, &claimant, `{"providerId":"x"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, newRequest(t, &claimant, `{"slotLabel":"Mon-09:00","note":"hi"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
