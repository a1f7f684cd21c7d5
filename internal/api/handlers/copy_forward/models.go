package copy_forward

import (
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	copyForward "github.com/m04kA/SMC-TutorBooking/internal/usecase/copy_forward"
)

const (
	weekStatusOK     = "ok"
	weekStatusFailed = "failed"
)

// CopyForwardRequest HTTP request model
type CopyForwardRequest struct {
	WeeksAhead int `json:"weeksAhead"`
}

// CopyForwardResponse HTTP response model
type CopyForwardResponse struct {
	SourceWeekOffset int            `json:"sourceWeekOffset"`
	Entries          int            `json:"entries"`
	Weeks            []WeekResponse `json:"weeks"`
}

// WeekResponse итог по одной неделе
type WeekResponse struct {
	WeekOffset int    `json:"weekOffset"`
	WeekStart  string `json:"weekStart"` // "2026-10-19"
	Status     string `json:"status"`    // ok, failed
	Written    int    `json:"written"`
	Skipped    int    `json:"skipped"`
}

// FromUseCaseResult конвертирует итог use case в HTTP response
// Тексты ошибок по неделям наружу не отдаются, они есть в логах
func FromUseCaseResult(result *copyForward.Result) *CopyForwardResponse {
	weeks := make([]WeekResponse, 0, len(result.Weeks))
	for _, w := range result.Weeks {
		status := weekStatusOK
		if w.Err != nil {
			status = weekStatusFailed
		}
		weeks = append(weeks, WeekResponse{
			WeekOffset: w.WeekOffset,
			WeekStart:  w.WeekStart.Format(domain.DateFormat),
			Status:     status,
			Written:    w.Written,
			Skipped:    w.Skipped,
		})
	}

	return &CopyForwardResponse{
		SourceWeekOffset: result.SourceWeekOffset,
		Entries:          result.Entries,
		Weeks:            weeks,
	}
}
