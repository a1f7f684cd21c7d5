package copy_forward

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-TutorBooking/internal/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

const (
	weekStatusOK     = "ok"
	weekStatusFailed = "failed"
)

// UseCase use case для копирования доступности недели на следующие недели
type UseCase struct {
	availabilityRepo AvailabilityRepository
	cache            WeekCache
	projector        *calendar.Projector
	window           domain.WeekWindow
	maxWeeks         int
	concurrency      int
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	cache WeekCache,
	projector *calendar.Projector,
	window domain.WeekWindow,
	maxWeeks int,
	concurrency int,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &UseCase{
		availabilityRepo: availabilityRepo,
		cache:            cache,
		projector:        projector,
		window:           window,
		maxWeeks:         maxWeeks,
		concurrency:      concurrency,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute копирует доступные (onsite/remote) слоты исходной недели на WeeksAhead следующих недель.
//
// Слияние аддитивное: на целевых неделях перезаписываются только скопированные слоты,
// остальные записи не трогаются. Закрытые слоты не копируются. Каждая неделя
// записывается отдельно, ошибка одной недели не отменяет остальные.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Result, error) {
	uc.logger.Info("CopyForward: caller=%s, provider=%s, source_week_offset=%d, weeks_ahead=%d",
		req.Caller.UserID, req.ProviderID, req.SourceWeekOffset, req.WeeksAhead)

	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("CopyForward: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	sourceWeek := uc.projector.WeekFor(req.SourceWeekOffset, now)

	// Источник читается из БД напрямую, минуя кэш
	source, err := uc.availabilityRepo.GetWeek(ctx, req.ProviderID, sourceWeek)
	if err != nil {
		uc.logger.Error("CopyForward: failed to read source week=%d for provider=%s: %v", sourceWeek, req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to read source week: %v", ErrInternal, err)
	}

	open := source.Bookable()
	if len(open) == 0 {
		uc.logger.Warn("CopyForward: source week=%d of provider=%s has no open slots", sourceWeek, req.ProviderID)
		return nil, ErrNothingToCopy
	}

	result := &Result{
		SourceWeekOffset: req.SourceWeekOffset,
		Entries:          len(open),
		Weeks:            make([]WeekResult, req.WeeksAhead),
	}

	var g errgroup.Group
	g.SetLimit(uc.concurrency)

	for i := 1; i <= req.WeeksAhead; i++ {
		idx := i - 1
		offset := req.SourceWeekOffset + i
		week := sourceWeek + domain.Week(i)

		g.Go(func() error {
			result.Weeks[idx] = uc.copyWeek(ctx, req, open, offset, week, now)
			return nil
		})
	}
	_ = g.Wait()

	failed := result.Failed()
	if failed > 0 {
		uc.logger.Warn("CopyForward: provider=%s, %d of %d weeks failed", req.ProviderID, failed, len(result.Weeks))
	} else {
		uc.logger.Info("CopyForward: provider=%s, copied %d slots to %d weeks", req.ProviderID, len(open), len(result.Weeks))
	}

	return result, nil
}

// copyWeek записывает слоты в одну целевую неделю
func (uc *UseCase) copyWeek(
	ctx context.Context,
	req *Request,
	open domain.WeekAvailability,
	offset int,
	week domain.Week,
	now time.Time,
) WeekResult {
	res := WeekResult{
		WeekOffset: offset,
		Week:       week,
		WeekStart:  uc.projector.WeekStart(week),
	}

	slots := make(domain.WeekAvailability, len(open))
	for label, mode := range open {
		past, err := uc.projector.IsPast(label, week, now)
		if err != nil {
			res.Err = fmt.Errorf("%w: %v", ErrInternal, err)
			uc.recordWeek(weekStatusFailed)
			return res
		}
		if past {
			res.Skipped++
			continue
		}
		slots[label] = mode
	}

	if err := ctx.Err(); err != nil {
		res.Err = err
		uc.recordWeek(weekStatusFailed)
		return res
	}

	written, err := uc.availabilityRepo.UpsertWeek(ctx, req.ProviderID, week, slots, now)
	if err != nil {
		uc.logger.Error("CopyForward: failed to write week=%d for provider=%s: %v", week, req.ProviderID, err)
		res.Err = fmt.Errorf("%w: %v", ErrInternal, err)
		uc.recordWeek(weekStatusFailed)
		return res
	}
	res.Written = written
	uc.recordWeek(weekStatusOK)

	if err := uc.cache.Invalidate(ctx, req.ProviderID, week); err != nil && !errors.Is(err, context.Canceled) {
		uc.logger.Warn("CopyForward: failed to invalidate cache for provider=%s, week=%d: %v", req.ProviderID, week, err)
	}

	return res
}

func (uc *UseCase) recordWeek(status string) {
	if uc.metrics != nil {
		uc.metrics.RecordPropagatedWeek(status)
	}
}
