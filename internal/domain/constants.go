package domain

// Default configuration values
const (
	DefaultGridStartHour   = 8
	DefaultGridEndHour     = 20
	DefaultGridStepMinutes = 30

	DefaultMaxPastWeeks        = 52
	DefaultMaxFutureWeeks      = 52
	DefaultMaxPropagationWeeks = 12
	DefaultMaxListingWeeks     = 8
)

// Time format constants
const (
	TimeFormat      = "15:04"            // HH:MM
	DateFormat      = "2006-01-02"       // YYYY-MM-DD
	DateLabelFormat = "Mon, Jan 2 15:04" // отображение слота в списках
)
