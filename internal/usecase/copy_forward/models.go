package copy_forward

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// Request модель запроса на копирование недели вперед
type Request struct {
	Caller           domain.Identity
	ProviderID       uuid.UUID
	SourceWeekOffset int
	WeeksAhead       int // Сколько следующих недель заполнить
}

// WeekResult итог по одной целевой неделе
type WeekResult struct {
	WeekOffset int
	Week       domain.Week
	WeekStart  time.Time
	Written    int   // Записано слотов
	Skipped    int   // Пропущено прошедших слотов
	Err        error // nil, если неделя записана
}

// Result итог копирования
type Result struct {
	SourceWeekOffset int
	Entries          int // Доступных слотов в исходной неделе
	Weeks            []WeekResult
}

// Failed количество недель с ошибкой
func (r *Result) Failed() int {
	failed := 0
	for _, w := range r.Weeks {
		if w.Err != nil {
			failed++
		}
	}
	return failed
}

// AllFailed true, если не записана ни одна неделя
func (r *Result) AllFailed() bool {
	return len(r.Weeks) > 0 && r.Failed() == len(r.Weeks)
}
