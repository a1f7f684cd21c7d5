package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

func newTestProjector(t *testing.T) *Projector {
	t.Helper()
	p, err := NewProjector(Grid{StartHour: 8, EndHour: 20, StepMinutes: 30}, time.UTC)
	require.NoError(t, err)
	return p
}

func TestTimeSlots_InclusiveOfBothEnds(t *testing.T) {
	slots := TimeSlots(8, 20, 30)

	require.Len(t, slots, 25)
	assert.Equal(t, types.TimeString("08:00"), slots[0])
	assert.Equal(t, types.TimeString("08:30"), slots[1])
	assert.Equal(t, types.TimeString("20:00"), slots[len(slots)-1])

	assert.Equal(t, []types.TimeString{"10:00"}, TimeSlots(10, 10, 30))
	assert.Empty(t, TimeSlots(10, 9, 30))
	assert.Empty(t, TimeSlots(8, 20, 0))
}

func TestNewProjector_InvalidGrid(t *testing.T) {
	_, err := NewProjector(Grid{StartHour: 8, EndHour: 20, StepMinutes: 25}, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidGrid)

	_, err = NewProjector(Grid{StartHour: 21, EndHour: 20, StepMinutes: 30}, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestProjector_ParseLabel(t *testing.T) {
	p := newTestProjector(t)

	label, err := p.ParseLabel("Wednesday-14:00")
	require.NoError(t, err)
	assert.Equal(t, domain.SlotLabel("Wed-14:00"), label)

	_, err = p.ParseLabel("Wed-14:15")
	assert.ErrorIs(t, err, ErrSlotOutsideGrid)

	_, err = p.ParseLabel("Wed-07:30")
	assert.ErrorIs(t, err, ErrSlotOutsideGrid)

	_, err = p.ParseLabel("Wed-20:30")
	assert.ErrorIs(t, err, ErrSlotOutsideGrid)

	_, err = p.ParseLabel("Xyz-10:00")
	assert.ErrorIs(t, err, domain.ErrInvalidSlotLabel)
}

func TestProjector_WeekOf_MondayAnchored(t *testing.T) {
	p := newTestProjector(t)

	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)
	nextMonday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.Week(2962), p.WeekOf(monday))
	assert.Equal(t, p.WeekOf(monday), p.WeekOf(sunday), "Sunday belongs to the week started by the preceding Monday")
	assert.Equal(t, p.WeekOf(monday)+1, p.WeekOf(nextMonday))

	assert.Equal(t, domain.Week(0), p.WeekOf(time.Date(1970, 1, 5, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.Week(-1), p.WeekOf(time.Date(1969, 12, 31, 12, 0, 0, 0, time.UTC)))
}

func TestProjector_SlotToDate(t *testing.T) {
	p := newTestProjector(t)
	// воскресенье: текущая неделя началась 12 октября
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

	got, err := p.SlotToDate("Wed-14:00", 0, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 14, 14, 0, 0, 0, time.UTC), got)

	got, err = p.SlotToDate("Mon-09:00", 1, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), got)

	got, err = p.SlotToDate("Sun-20:00", -1, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 11, 20, 0, 0, 0, time.UTC), got)

	_, err = p.SlotToDate("broken", 0, now)
	assert.Error(t, err)
}

func TestProjector_SlotToDate_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}
	p, err := NewProjector(Grid{StartHour: 8, EndHour: 20, StepMinutes: 30}, loc)
	require.NoError(t, err)

	// 30 марта 2025 года переход на летнее время; слот должен остаться в 09:00 по местному времени
	now := time.Date(2025, 3, 24, 12, 0, 0, 0, loc)
	got, err := p.SlotToDate("Mon-09:00", 1, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 31, 9, 0, 0, 0, loc), got)
	assert.Equal(t, 9, got.Hour())
}

func TestProjector_WeekRange(t *testing.T) {
	p := newTestProjector(t)
	now := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

	start, end := p.WeekRange(0, now)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 10, 18, 23, 59, 59, 999999999, time.UTC), end)

	start, _ = p.WeekRange(-2, now)
	assert.Equal(t, time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC), start)
}

func TestProjector_OffsetRoundTrip(t *testing.T) {
	p := newTestProjector(t)
	now := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

	for _, offset := range []int{-3, 0, 1, 12} {
		week := p.WeekFor(offset, now)
		assert.Equal(t, offset, p.OffsetOf(week, now))
	}
}

func TestProjector_DateLabelAndIsPast(t *testing.T) {
	p := newTestProjector(t)
	now := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

	label, err := p.DateLabel("Wed-14:00", 0, now)
	require.NoError(t, err)
	assert.Equal(t, "Wed, Oct 14 14:00", label)

	week := p.WeekOf(now)

	past, err := p.IsPast("Wed-14:00", week, now)
	require.NoError(t, err)
	assert.True(t, past)

	past, err = p.IsPast("Wed-15:00", week, now)
	require.NoError(t, err)
	assert.False(t, past, "a slot starting exactly now is not in the past")

	past, err = p.IsPast("Mon-08:00", week+1, now)
	require.NoError(t, err)
	assert.False(t, past)
}
