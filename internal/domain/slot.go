package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

var (
	ErrInvalidSlotLabel = errors.New("invalid slot label")
	ErrInvalidWeekday   = errors.New("invalid weekday")
)

// Weekday day of the week counted from Monday (Monday = 0 ... Sunday = 6)
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek number of days in the weekly template
const DaysInWeek = 7

var weekdayNames = [DaysInWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var weekdayFullNames = [DaysInWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// AllWeekdays returns the days in template order
func AllWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// FullName returns the English day name ("Monday")
func (d Weekday) FullName() string {
	if !d.Valid() {
		return d.String()
	}
	return weekdayFullNames[d]
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// WeekdayOf converts time.Weekday (Sunday = 0) to the Monday-anchored Weekday
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % DaysInWeek)
}

// ParseWeekday accepts short ("Mon") and full ("Monday") names, case-insensitive
func ParseWeekday(s string) (Weekday, error) {
	for i := 0; i < DaysInWeek; i++ {
		if strings.EqualFold(s, weekdayNames[i]) || strings.EqualFold(s, weekdayFullNames[i]) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// SlotLabel identifies a slot inside the weekly template, e.g. "Wed-14:00"
// Canonical form is "<Day>-<HH:MM>" with a three-letter day name.
type SlotLabel string

// NewSlotLabel builds a canonical label
func NewSlotLabel(day Weekday, at types.TimeString) SlotLabel {
	return SlotLabel(day.String() + "-" + at.String())
}

// ParseSlotLabel validates the label format and returns it in canonical form
// Grid alignment is checked by calendar.Projector.
func ParseSlotLabel(s string) (SlotLabel, error) {
	dayPart, timePart, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlotLabel, s)
	}

	day, err := ParseWeekday(dayPart)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidSlotLabel, s, err)
	}

	at, err := types.NewTimeStringFromString(timePart)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidSlotLabel, s, err)
	}

	return NewSlotLabel(day, at), nil
}

// Parts splits the label into day and time of day
func (l SlotLabel) Parts() (Weekday, types.TimeString, error) {
	canonical, err := ParseSlotLabel(string(l))
	if err != nil {
		return 0, "", err
	}
	dayPart, timePart, _ := strings.Cut(string(canonical), "-")
	day, _ := ParseWeekday(dayPart)
	return day, types.TimeString(timePart), nil
}

func (l SlotLabel) String() string {
	return string(l)
}
