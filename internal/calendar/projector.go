package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

var (
	// ErrInvalidGrid возвращается при некорректных параметрах сетки
	ErrInvalidGrid = errors.New("calendar: invalid grid")

	// ErrSlotOutsideGrid возвращается, когда время слота не попадает в сетку
	ErrSlotOutsideGrid = errors.New("calendar: slot is outside the grid")
)

// epochMonday начало нулевой недели
var epochMonday = time.Date(1970, time.January, 5, 0, 0, 0, 0, time.UTC)

// Grid сетка слотов внутри дня: от StartHour:00 до EndHour:00 включительно с шагом StepMinutes
type Grid struct {
	StartHour   int
	EndHour     int
	StepMinutes int
}

// Validate проверяет параметры сетки
func (g Grid) Validate() error {
	if g.StartHour < 0 || g.EndHour > 23 || g.StartHour > g.EndHour {
		return fmt.Errorf("%w: hours %d..%d", ErrInvalidGrid, g.StartHour, g.EndHour)
	}
	if g.StepMinutes <= 0 || 60%g.StepMinutes != 0 {
		return fmt.Errorf("%w: step %d must divide 60", ErrInvalidGrid, g.StepMinutes)
	}
	return nil
}

// Projector переводит метки слотов недельного шаблона в реальные даты.
//
// Неделя начинается в понедельник (ISO 8601) во всех вычислениях:
// смещение дня Mon=0 ... Sun=6, воскресенье относится к той же неделе, что и предшествующий понедельник.
// Все методы чистые: "сейчас" всегда передается аргументом.
type Projector struct {
	grid  Grid
	loc   *time.Location
	slots []types.TimeString
}

// NewProjector создает проектор для сетки grid в часовом поясе loc
func NewProjector(grid Grid, loc *time.Location) (*Projector, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &Projector{
		grid:  grid,
		loc:   loc,
		slots: TimeSlots(grid.StartHour, grid.EndHour, grid.StepMinutes),
	}, nil
}

// TimeSlots возвращает времена слотов от startHour:00 до endHour:00 включительно
func TimeSlots(startHour, endHour, stepMinutes int) []types.TimeString {
	if stepMinutes <= 0 || startHour > endHour {
		return []types.TimeString{}
	}

	slots := make([]types.TimeString, 0, (endHour-startHour)*60/stepMinutes+1)
	for m := startHour * 60; m <= endHour*60; m += stepMinutes {
		slots = append(slots, types.NewTimeStringFromMinutes(m))
	}
	return slots
}

// Location часовой пояс расписания
func (p *Projector) Location() *time.Location {
	return p.loc
}

// Grid параметры сетки
func (p *Projector) Grid() Grid {
	return p.grid
}

// TimeSlots времена слотов сетки
func (p *Projector) TimeSlots() []types.TimeString {
	out := make([]types.TimeString, len(p.slots))
	copy(out, p.slots)
	return out
}

// ParseLabel разбирает метку и проверяет, что время лежит на сетке
func (p *Projector) ParseLabel(s string) (domain.SlotLabel, error) {
	label, err := domain.ParseSlotLabel(s)
	if err != nil {
		return "", err
	}
	if err := p.ValidateLabel(label); err != nil {
		return "", err
	}
	return label, nil
}

// ValidateLabel проверяет, что метка попадает на сетку
func (p *Projector) ValidateLabel(label domain.SlotLabel) error {
	_, at, err := label.Parts()
	if err != nil {
		return err
	}

	minutes, err := at.Minutes()
	if err != nil {
		return err
	}

	start := p.grid.StartHour * 60
	end := p.grid.EndHour * 60
	if minutes < start || minutes > end || (minutes-start)%p.grid.StepMinutes != 0 {
		return fmt.Errorf("%w: %s (grid %02d:00-%02d:00 step %d)",
			ErrSlotOutsideGrid, label, p.grid.StartHour, p.grid.EndHour, p.grid.StepMinutes)
	}
	return nil
}

// WeekOf абсолютный номер недели, содержащей момент t
func (p *Projector) WeekOf(t time.Time) domain.Week {
	y, m, d := t.In(p.loc).Date()
	days := int64(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Sub(epochMonday) / (24 * time.Hour))
	return domain.Week(floorDiv(days, domain.DaysInWeek))
}

// WeekFor абсолютная неделя для смещения weekOffset относительно now
func (p *Projector) WeekFor(weekOffset int, now time.Time) domain.Week {
	return p.WeekOf(now) + domain.Week(weekOffset)
}

// OffsetOf смещение недели week относительно недели, содержащей now
func (p *Projector) OffsetOf(week domain.Week, now time.Time) int {
	return int(week - p.WeekOf(now))
}

// WeekStart понедельник 00:00 недели week
func (p *Projector) WeekStart(week domain.Week) time.Time {
	d := epochMonday.AddDate(0, 0, int(week)*domain.DaysInWeek)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, p.loc)
}

// SlotTime момент начала слота label в неделе week
func (p *Projector) SlotTime(label domain.SlotLabel, week domain.Week) (time.Time, error) {
	day, at, err := label.Parts()
	if err != nil {
		return time.Time{}, err
	}

	minutes, err := at.Minutes()
	if err != nil {
		return time.Time{}, err
	}

	start := p.WeekStart(week)
	return time.Date(start.Year(), start.Month(), start.Day()+int(day), minutes/60, minutes%60, 0, 0, p.loc), nil
}

// SlotToDate момент начала слота для смещения weekOffset относительно now
func (p *Projector) SlotToDate(label domain.SlotLabel, weekOffset int, now time.Time) (time.Time, error) {
	return p.SlotTime(label, p.WeekFor(weekOffset, now))
}

// DateLabel человекочитаемая дата слота, например "Wed, Oct 14 14:00"
func (p *Projector) DateLabel(label domain.SlotLabel, weekOffset int, now time.Time) (string, error) {
	t, err := p.SlotToDate(label, weekOffset, now)
	if err != nil {
		return "", err
	}
	return t.Format(domain.DateLabelFormat), nil
}

// WeekRange границы недели включительно: понедельник 00:00 - воскресенье 23:59:59.999999999
func (p *Projector) WeekRange(weekOffset int, now time.Time) (time.Time, time.Time) {
	start := p.WeekStart(p.WeekFor(weekOffset, now))
	end := time.Date(start.Year(), start.Month(), start.Day()+domain.DaysInWeek-1, 23, 59, 59, int(time.Second-1), p.loc)
	return start, end
}

// IsPast проверяет, что слот начинается раньше now
func (p *Projector) IsPast(label domain.SlotLabel, week domain.Week, now time.Time) (bool, error) {
	t, err := p.SlotTime(label, week)
	if err != nil {
		return false, err
	}
	return t.Before(now), nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
