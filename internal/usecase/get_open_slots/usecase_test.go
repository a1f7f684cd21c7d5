package get_open_slots

import (
	"context"
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
	"github.com/m04kA/SMC-TutorBooking/pkg/ptr"
)

// среда, 14 октября 2026, 12:00 UTC
var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type staticNames map[uuid.UUID]string

func (n staticNames) GetDisplayNames(_ context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	result := make(map[uuid.UUID]string)
	for _, id := range ids {
		if name, ok := n[id]; ok {
			result[id] = name
		}
	}
	return result
}

type fixture struct {
	uc           *UseCase
	availability *availabilityRepo.Repository
	bookings     *bookingRepo.Repository
	projector    *calendar.Projector
}

func newFixture(t *testing.T, names staticNames) *fixture {
	t.Helper()

	db := sqlitetest.New(t)
	projector, err := calendar.NewProjector(calendar.Grid{StartHour: 8, EndHour: 20, StepMinutes: 30}, time.UTC)
	require.NoError(t, err)

	f := &fixture{
		availability: availabilityRepo.NewRepository(db, availabilityRepo.WithoutRowLocks()),
		bookings:     bookingRepo.NewRepository(db),
		projector:    projector,
	}
	f.uc = NewUseCase(
		f.availability,
		f.bookings,
		names,
		projector,
		domain.WeekWindow{MaxPastWeeks: 4, MaxFutureWeeks: 12},
		8,
		logger.NewNop(),
	)
	f.uc.timeProvider = fixedTime{now: testNow}
	return f
}

func (f *fixture) set(t *testing.T, provider uuid.UUID, offset int, label domain.SlotLabel, mode domain.Mode) {
	t.Helper()
	require.NoError(t, f.availability.Upsert(context.Background(), domain.AvailabilityEntry{
		ProviderID: provider,
		Week:       f.projector.WeekFor(offset, testNow),
		SlotLabel:  label,
		Mode:       mode,
		UpdatedAt:  testNow,
	}))
}

func (f *fixture) book(t *testing.T, provider uuid.UUID, offset int, label domain.SlotLabel) {
	t.Helper()
	_, err := f.bookings.Create(context.Background(), &domain.Booking{
		ProviderID: provider,
		ClaimantID: uuid.New(),
		Week:       f.projector.WeekFor(offset, testNow),
		SlotLabel:  label,
		Mode:       domain.ModeOnsite,
		Status:     domain.StatusActive,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	})
	require.NoError(t, err)
}

func labelsOf(slots []Slot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.SlotLabel.String())
	}
	return result
}

func TestExecute_ExcludesBookedPastAndUnavailable(t *testing.T) {
	provider := uuid.New()
	f := newFixture(t, staticNames{provider: "Prof. Okafor"})

	f.set(t, provider, 0, "Mon-09:00", domain.ModeOnsite) // прошел
	f.set(t, provider, 0, "Wed-11:30", domain.ModeOnsite) // только что начался
	f.set(t, provider, 0, "Thu-10:00", domain.ModeRemote) // свободен
	f.set(t, provider, 0, "Thu-11:00", domain.ModeOnsite) // занят
	f.set(t, provider, 0, "Fri-10:00", domain.ModeUnavailable)
	f.set(t, provider, 1, "Mon-09:00", domain.ModeOnsite) // вне окна по умолчанию
	f.book(t, provider, 0, "Thu-11:00")

	resp, err := f.uc.Execute(context.Background(), &Request{ProviderID: ptr.Ptr(provider)})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Weeks)
	require.Len(t, resp.Slots, 1)
	slot := resp.Slots[0]
	assert.Equal(t, domain.SlotLabel("Thu-10:00"), slot.SlotLabel)
	assert.Equal(t, domain.ModeRemote, slot.Mode)
	assert.Equal(t, 0, slot.WeekOffset)
	assert.Equal(t, "Thu, Oct 15 10:00", slot.DateLabel)
	require.NotNil(t, slot.ProviderName)
	assert.Equal(t, "Prof. Okafor", *slot.ProviderName)
}

func TestExecute_AllProvidersSortedByTime(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	f := newFixture(t, staticNames{})

	f.set(t, a, 2, "Tue-09:00", domain.ModeOnsite)
	f.set(t, b, 1, "Fri-09:00", domain.ModeRemote)
	f.set(t, a, 1, "Mon-15:00", domain.ModeOnsite)
	f.set(t, b, 1, "Mon-15:00", domain.ModeOnsite)

	resp, err := f.uc.Execute(context.Background(), &Request{FromWeekOffset: 1, Weeks: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"Mon-15:00", "Mon-15:00", "Fri-09:00", "Tue-09:00"}, labelsOf(resp.Slots))
	assert.True(t, resp.Slots[0].ProviderID.String() < resp.Slots[1].ProviderID.String())
	assert.Equal(t, 2, resp.Slots[3].WeekOffset)
	for _, s := range resp.Slots {
		assert.Nil(t, s.ProviderName)
	}
}

func TestExecute_ProviderFilter(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	f := newFixture(t, nil)

	f.set(t, a, 1, "Mon-09:00", domain.ModeOnsite)
	f.set(t, b, 1, "Mon-10:00", domain.ModeOnsite)

	resp, err := f.uc.Execute(context.Background(), &Request{ProviderID: ptr.Ptr(b), FromWeekOffset: 1})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, b, resp.Slots[0].ProviderID)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.uc.Execute(context.Background(), &Request{Weeks: 9})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{Weeks: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{FromWeekOffset: 10, Weeks: 4})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
