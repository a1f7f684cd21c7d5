package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TutorBooking/internal/infra/storage/sqlitetest"
	"github.com/m04kA/SMC-TutorBooking/internal/integrations/profileservice"
	"github.com/m04kA/SMC-TutorBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
	"github.com/m04kA/SMC-TutorBooking/pkg/ptr"
	"github.com/m04kA/SMC-TutorBooking/pkg/txmanager"
)

// среда, 14 октября 2026, 12:00 UTC
var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type mockProfileClient struct {
	mock.Mock
	disabled bool
}

func (m *mockProfileClient) Enabled() bool {
	return !m.disabled
}

func (m *mockProfileClient) GetProfileWithGracefulDegradation(ctx context.Context, userID uuid.UUID) (*profileservice.Profile, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*profileservice.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixture struct {
	svc       *Service
	repo      *bookingRepo.Repository
	projector *calendar.Projector
	profiles  *mockProfileClient
	provider  domain.Identity
	claimant  domain.Identity
}

func newFixture(t *testing.T, policy Policy) *fixture {
	t.Helper()

	db := sqlitetest.New(t)
	projector, err := calendar.NewProjector(calendar.Grid{StartHour: 8, EndHour: 20, StepMinutes: 30}, time.UTC)
	require.NoError(t, err)

	f := &fixture{
		repo:      bookingRepo.NewRepository(db),
		projector: projector,
		profiles:  &mockProfileClient{},
		provider:  domain.Identity{UserID: uuid.New(), Role: domain.RoleProvider},
		claimant:  domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant},
	}
	f.svc = NewService(f.repo, f.profiles, txmanager.NewTransactionManager(db), projector, policy, logger.NewNop())
	f.svc.timeProvider = fixedTime{now: testNow}
	return f
}

func (f *fixture) book(t *testing.T, claimantID uuid.UUID, offset int, label domain.SlotLabel) *domain.Booking {
	t.Helper()
	b, err := f.repo.Create(context.Background(), &domain.Booking{
		ProviderID: f.provider.UserID,
		ClaimantID: claimantID,
		Week:       f.projector.WeekFor(offset, testNow),
		SlotLabel:  label,
		Mode:       domain.ModeOnsite,
		Status:     domain.StatusActive,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	})
	require.NoError(t, err)
	return b
}

func TestCancel_ByClaimant(t *testing.T) {
	f := newFixture(t, Policy{})
	ctx := context.Background()
	b := f.book(t, f.claimant.UserID, 1, "Mon-09:00")

	resp, err := f.svc.Cancel(ctx, &models.CancelBookingRequest{Caller: f.claimant, BookingID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCancelled, resp.Outcome)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, string(domain.StatusCancelledByClaimant), resp.Booking.Status)
	assert.NotNil(t, resp.Booking.CancelledAt)

	resp, err = f.svc.Cancel(ctx, &models.CancelBookingRequest{Caller: f.claimant, BookingID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeAlreadyCancelled, resp.Outcome)

	resp, err = f.svc.Cancel(ctx, &models.CancelBookingRequest{Caller: f.claimant, BookingID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNotFound, resp.Outcome)
	assert.Nil(t, resp.Booking)
}

func TestCancel_ByProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed by policy", func(t *testing.T) {
		f := newFixture(t, Policy{AllowProviderCancel: true})
		b := f.book(t, f.claimant.UserID, 1, "Mon-09:00")

		resp, err := f.svc.Cancel(ctx, &models.CancelBookingRequest{Caller: f.provider, BookingID: b.ID})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeCancelled, resp.Outcome)
		assert.Equal(t, string(domain.StatusCancelledByProvider), resp.Booking.Status)
	})

	t.Run("forbidden by policy", func(t *testing.T) {
		f := newFixture(t, Policy{AllowProviderCancel: false})
		b := f.book(t, f.claimant.UserID, 1, "Mon-09:00")

		_, err := f.svc.Cancel(ctx, &models.CancelBookingRequest{Caller: f.provider, BookingID: b.ID})
		assert.ErrorIs(t, err, ErrNotPermitted)

		stored, err := f.repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsActive())
	})
}

func TestCancel_Stranger(t *testing.T) {
	f := newFixture(t, Policy{AllowProviderCancel: true})
	b := f.book(t, f.claimant.UserID, 1, "Mon-09:00")

	stranger := domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant}
	_, err := f.svc.Cancel(context.Background(), &models.CancelBookingRequest{Caller: stranger, BookingID: b.ID})
	assert.ErrorIs(t, err, ErrNotPermitted)

	otherProvider := domain.Identity{UserID: uuid.New(), Role: domain.RoleProvider}
	_, err = f.svc.Cancel(context.Background(), &models.CancelBookingRequest{Caller: otherProvider, BookingID: b.ID})
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestCancel_StrangerCannotSeeCancelledBooking(t *testing.T) {
	f := newFixture(t, Policy{AllowProviderCancel: true})
	ctx := context.Background()
	b := f.book(t, f.claimant.UserID, 1, "Mon-09:00")

	_, err := f.svc.Cancel(ctx, &models.CancelBookingRequest{Caller: f.claimant, BookingID: b.ID})
	require.NoError(t, err)

	for _, caller := range []domain.Identity{
		{UserID: uuid.New(), Role: domain.RoleClaimant},
		{UserID: uuid.New(), Role: domain.RoleProvider},
	} {
		resp, err := f.svc.Cancel(ctx, &models.CancelBookingRequest{Caller: caller, BookingID: b.ID})
		assert.ErrorIs(t, err, ErrNotPermitted)
		assert.Nil(t, resp)
	}

	// участники по-прежнему получают already_cancelled
	resp, err := f.svc.Cancel(ctx, &models.CancelBookingRequest{Caller: f.provider, BookingID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeAlreadyCancelled, resp.Outcome)
	assert.Equal(t, string(domain.StatusCancelledByClaimant), resp.Booking.Status)
}

func TestCancel_MinNotice(t *testing.T) {
	f := newFixture(t, Policy{MinCancelNotice: 24 * time.Hour})
	soon := f.book(t, f.claimant.UserID, 0, "Thu-09:00")
	later := f.book(t, f.claimant.UserID, 0, "Thu-12:30")

	_, err := f.svc.Cancel(context.Background(), &models.CancelBookingRequest{Caller: f.claimant, BookingID: soon.ID})
	assert.ErrorIs(t, err, ErrTooLateToCancel)

	resp, err := f.svc.Cancel(context.Background(), &models.CancelBookingRequest{Caller: f.claimant, BookingID: later.ID})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCancelled, resp.Outcome)
}

func TestGetByID_Visibility(t *testing.T) {
	f := newFixture(t, Policy{})
	ctx := context.Background()
	b := f.book(t, f.claimant.UserID, 0, "Wed-14:00")

	resp, err := f.svc.GetByID(ctx, f.claimant, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.WeekOffset)
	assert.Equal(t, "Wed, Oct 14 14:00", resp.DateLabel)

	_, err = f.svc.GetByID(ctx, f.provider, b.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(ctx, domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant}, b.ID)
	assert.ErrorIs(t, err, ErrNotPermitted)

	_, err = f.svc.GetByID(ctx, f.claimant, uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetClaimantBookings_SortedWithProviderNames(t *testing.T) {
	f := newFixture(t, Policy{})
	ctx := context.Background()

	f.book(t, f.claimant.UserID, 2, "Mon-09:00")
	f.book(t, f.claimant.UserID, 1, "Fri-10:00")
	f.book(t, f.claimant.UserID, 1, "Tue-10:00")
	f.book(t, uuid.New(), 1, "Wed-10:00")

	f.profiles.On("GetProfileWithGracefulDegradation", mock.Anything, f.provider.UserID).
		Return(&profileservice.Profile{ID: f.provider.UserID, FullName: "Dr. Rivera"}, nil).Once()

	resp, err := f.svc.GetClaimantBookings(ctx, &models.GetClaimantBookingsRequest{
		Caller:     f.claimant,
		ClaimantID: f.claimant.UserID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 3)

	labels := make([]string, 0, len(resp.Bookings))
	for _, b := range resp.Bookings {
		labels = append(labels, fmt.Sprintf("%d/%s", b.WeekOffset, b.SlotLabel))
		require.NotNil(t, b.ProviderName)
		assert.Equal(t, "Dr. Rivera", *b.ProviderName)
	}
	assert.Equal(t, []string{"1/Tue-10:00", "1/Fri-10:00", "2/Mon-09:00"}, labels)
	f.profiles.AssertExpectations(t)

	_, err = f.svc.GetClaimantBookings(ctx, &models.GetClaimantBookingsRequest{
		Caller:     domain.Identity{UserID: uuid.New(), Role: domain.RoleClaimant},
		ClaimantID: f.claimant.UserID,
	})
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestGetProviderBookings_WindowAndDegradation(t *testing.T) {
	f := newFixture(t, Policy{})
	ctx := context.Background()

	f.book(t, f.claimant.UserID, 0, "Thu-09:00")
	f.book(t, f.claimant.UserID, 1, "Thu-09:00")
	f.book(t, f.claimant.UserID, 3, "Thu-09:00")

	f.profiles.On("GetProfileWithGracefulDegradation", mock.Anything, f.claimant.UserID).
		Return(nil, profileservice.ErrServiceDegraded)

	resp, err := f.svc.GetProviderBookings(ctx, &models.GetProviderBookingsRequest{
		Caller:         f.provider,
		ProviderID:     f.provider.UserID,
		FromWeekOffset: ptr.Ptr(0),
		ToWeekOffset:   ptr.Ptr(1),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	for _, b := range resp.Bookings {
		assert.Nil(t, b.ClaimantName)
		assert.Nil(t, b.ClaimantEmail)
	}

	_, err = f.svc.GetProviderBookings(ctx, &models.GetProviderBookingsRequest{
		Caller:         f.provider,
		ProviderID:     f.provider.UserID,
		FromWeekOffset: ptr.Ptr(3),
		ToWeekOffset:   ptr.Ptr(1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GetProviderBookings(ctx, &models.GetProviderBookingsRequest{
		Caller:     f.claimant,
		ProviderID: f.provider.UserID,
	})
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestGetProviderBookings_ClaimantProfile(t *testing.T) {
	f := newFixture(t, Policy{})
	f.book(t, f.claimant.UserID, 1, "Thu-09:00")

	f.profiles.On("GetProfileWithGracefulDegradation", mock.Anything, f.claimant.UserID).
		Return(&profileservice.Profile{ID: f.claimant.UserID, FullName: "Sam Lee", Email: "sam@uni.edu"}, nil)

	resp, err := f.svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		Caller:     f.provider,
		ProviderID: f.provider.UserID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "Sam Lee", *resp.Bookings[0].ClaimantName)
	assert.Equal(t, "sam@uni.edu", *resp.Bookings[0].ClaimantEmail)
}

func TestGetClaimantBookings_ProfileServiceDisabled(t *testing.T) {
	f := newFixture(t, Policy{})
	f.profiles.disabled = true
	f.book(t, f.claimant.UserID, 1, "Tue-10:00")

	resp, err := f.svc.GetClaimantBookings(context.Background(), &models.GetClaimantBookingsRequest{
		Caller:     f.claimant,
		ClaimantID: f.claimant.UserID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Nil(t, resp.Bookings[0].ProviderName)
	f.profiles.AssertNotCalled(t, "GetProfileWithGracefulDegradation", mock.Anything, mock.Anything)
}
