package set_slot_mode

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TutorBooking/internal/infra/storage/sqlitetest"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
	"github.com/m04kA/SMC-TutorBooking/pkg/txmanager"
)

// среда, 14 октября 2026, 12:00 UTC
var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type spyCache struct {
	mu          sync.Mutex
	invalidated []domain.Week
}

func (c *spyCache) Invalidate(_ context.Context, _ uuid.UUID, week domain.Week) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, week)
	return nil
}

type fixture struct {
	uc           *UseCase
	availability *availabilityRepo.Repository
	bookings     *bookingRepo.Repository
	cache        *spyCache
	projector    *calendar.Projector
	provider     domain.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := sqlitetest.New(t)
	projector, err := calendar.NewProjector(calendar.Grid{StartHour: 8, EndHour: 20, StepMinutes: 30}, time.UTC)
	require.NoError(t, err)

	f := &fixture{
		availability: availabilityRepo.NewRepository(db, availabilityRepo.WithoutRowLocks()),
		bookings:     bookingRepo.NewRepository(db),
		cache:        &spyCache{},
		projector:    projector,
		provider:     domain.Identity{UserID: uuid.New(), Role: domain.RoleProvider},
	}
	f.uc = NewUseCase(
		f.availability,
		f.bookings,
		f.cache,
		txmanager.NewTransactionManager(db),
		projector,
		domain.WeekWindow{MaxPastWeeks: 4, MaxFutureWeeks: 12},
		logger.NewNop(),
	)
	f.uc.timeProvider = fixedTime{now: testNow}
	return f
}

func (f *fixture) request(offset int, label, mode string) *Request {
	return &Request{
		Caller:     f.provider,
		ProviderID: f.provider.UserID,
		WeekOffset: offset,
		SlotLabel:  label,
		Mode:       mode,
	}
}

func (f *fixture) modeOf(t *testing.T, offset int, label domain.SlotLabel) domain.Mode {
	t.Helper()
	mode, err := f.availability.GetMode(context.Background(), domain.SlotKey{
		ProviderID: f.provider.UserID,
		Week:       f.projector.WeekFor(offset, testNow),
		SlotLabel:  label,
	})
	require.NoError(t, err)
	return mode
}

func TestExecute_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, mode := range []string{"onsite", "remote", "unavailable", "remote"} {
		resp, err := f.uc.Execute(ctx, f.request(1, "Tue-10:00", mode))
		require.NoError(t, err)
		assert.Equal(t, domain.Mode(mode), resp.Mode)
		assert.Equal(t, domain.Mode(mode), f.modeOf(t, 1, "Tue-10:00"))
	}

	// идемпотентность
	_, err := f.uc.Execute(ctx, f.request(1, "Tue-10:00", "remote"))
	require.NoError(t, err)
	assert.Equal(t, domain.ModeRemote, f.modeOf(t, 1, "Tue-10:00"))

	// соседние слоты не затронуты
	assert.Equal(t, domain.ModeUnavailable, f.modeOf(t, 1, "Tue-10:30"))
	assert.Equal(t, domain.ModeUnavailable, f.modeOf(t, 2, "Tue-10:00"))
}

func TestExecute_ResponseProjection(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.request(0, "Wed-14:00", "onsite"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 14, 14, 0, 0, 0, time.UTC), resp.SlotStart)
	assert.Equal(t, f.projector.WeekOf(testNow), resp.Week)
	assert.Equal(t, []domain.Week{resp.Week}, f.cache.invalidated)
}

func TestToggle_CyclesThroughModes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expected := []domain.Mode{domain.ModeOnsite, domain.ModeRemote, domain.ModeUnavailable, domain.ModeOnsite}
	for _, want := range expected {
		resp, err := f.uc.Toggle(ctx, f.request(2, "Fri-18:30", ""))
		require.NoError(t, err)
		assert.Equal(t, want, resp.Mode)
	}
	assert.Len(t, f.cache.invalidated, len(expected))
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"unknown mode", f.request(1, "Mon-09:00", "hybrid"), ErrInvalidInput},
		{"bad label", f.request(1, "Funday-09:00", "onsite"), ErrInvalidInput},
		{"off grid", f.request(1, "Mon-09:15", "onsite"), ErrInvalidInput},
		{"outside grid hours", f.request(1, "Mon-21:00", "onsite"), ErrInvalidInput},
		{"offset too far", f.request(13, "Mon-09:00", "onsite"), ErrInvalidInput},
		{"offset too old", f.request(-5, "Mon-09:00", "onsite"), ErrInvalidInput},
		{"nil provider", &Request{Caller: f.provider, WeekOffset: 1, SlotLabel: "Mon-09:00", Mode: "onsite"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.cache.invalidated)
}

func TestExecute_NotPermitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherProvider := f.request(1, "Mon-09:00", "onsite")
	otherProvider.Caller = domain.Identity{UserID: uuid.New(), Role: domain.RoleProvider}
	_, err := f.uc.Execute(ctx, otherProvider)
	assert.ErrorIs(t, err, ErrNotPermitted)

	claimant := f.request(1, "Mon-09:00", "onsite")
	claimant.Caller = domain.Identity{UserID: f.provider.UserID, Role: domain.RoleClaimant}
	_, err = f.uc.Toggle(ctx, claimant)
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestExecute_PastSlotIsReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, mode := range []string{"onsite", "remote", "unavailable"} {
		_, err := f.uc.Execute(ctx, f.request(0, "Mon-09:00", mode))
		assert.ErrorIs(t, err, ErrSlotInPast)
	}
	_, err := f.uc.Toggle(ctx, f.request(-1, "Fri-10:00", ""))
	assert.ErrorIs(t, err, ErrSlotInPast)

	_, err = f.uc.Execute(ctx, f.request(0, "Wed-11:30", "onsite"))
	assert.ErrorIs(t, err, ErrSlotInPast)
	// слот, начинающийся ровно сейчас, еще можно менять
	_, err = f.uc.Execute(ctx, f.request(0, "Wed-12:00", "onsite"))
	assert.NoError(t, err)
}

func TestExecute_BookedSlotCannotBeClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request(1, "Thu-11:00", "remote"))
	require.NoError(t, err)

	_, err = f.bookings.Create(ctx, &domain.Booking{
		ProviderID: f.provider.UserID,
		ClaimantID: uuid.New(),
		Week:       f.projector.WeekFor(1, testNow),
		SlotLabel:  "Thu-11:00",
		Mode:       domain.ModeRemote,
		Status:     domain.StatusActive,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request(1, "Thu-11:00", "unavailable"))
	assert.ErrorIs(t, err, ErrSlotBooked)
	assert.Equal(t, domain.ModeRemote, f.modeOf(t, 1, "Thu-11:00"), "rolled back")

	// remote -> unavailable через toggle тоже запрещен
	_, err = f.uc.Toggle(ctx, f.request(1, "Thu-11:00", ""))
	assert.ErrorIs(t, err, ErrSlotBooked)

	// смена между доступными режимами разрешена
	resp, err := f.uc.Execute(ctx, f.request(1, "Thu-11:00", "onsite"))
	require.NoError(t, err)
	assert.Equal(t, domain.ModeOnsite, resp.Mode)
}
