package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/booking"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	txManager        TransactionManager
	projector        *calendar.Projector
	window           domain.WeekWindow
	minNotice        time.Duration
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
// minNotice = 0 отключает проверку минимального времени до начала слота.
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	txManager TransactionManager,
	projector *calendar.Projector,
	window domain.WeekWindow,
	minNotice time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		txManager:        txManager,
		projector:        projector,
		window:           window,
		minNotice:        minNotice,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования.
//
// Режим слота читается в той же транзакции, что и вставка (FOR SHARE на PostgreSQL),
// а единственность активной брони на слот гарантирует частичный уникальный индекс.
// Из N конкурентных запросов на один слот успешен ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, provider=%s, week_offset=%d, slot=%s",
		req.Caller.UserID, req.ProviderID, req.WeekOffset, req.SlotLabel)

	// 1. Валидация входных данных
	label, err := uc.validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.record(outcomeRejected)
		return nil, err
	}

	// 2. Бронировать могут только студенты
	if err := validateCaller(req.Caller); err != nil {
		uc.logger.Warn("CreateBooking: user=%s with role=%s is not allowed to book", req.Caller.UserID, req.Caller.Role)
		uc.record(outcomeRejected)
		return nil, err
	}

	// 3. Проецируем слот на реальную дату
	now := uc.timeProvider.Now()
	week := uc.projector.WeekFor(req.WeekOffset, now)

	slotStart, err := uc.projector.SlotTime(label, week)
	if err != nil {
		uc.record(outcomeRejected)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if slotStart.Before(now) {
		uc.logger.Warn("CreateBooking: slot %s of week %d already started", label, week)
		uc.record(outcomeRejected)
		return nil, ErrSlotInPast
	}

	if uc.minNotice > 0 && slotStart.Sub(now) < uc.minNotice {
		uc.logger.Warn("CreateBooking: slot %s starts in %s, minimum notice is %s",
			label, slotStart.Sub(now).Round(time.Minute), uc.minNotice)
		uc.record(outcomeRejected)
		return nil, ErrTooLateToBook
	}

	// 4. Проверяем режим и создаем бронь в одной транзакции
	key := domain.SlotKey{ProviderID: req.ProviderID, Week: week, SlotLabel: label}
	var created *domain.Booking

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		mode, err := uc.availabilityRepo.GetMode(txCtx, key)
		if err != nil {
			return fmt.Errorf("%w: failed to get slot mode: %v", ErrInternal, err)
		}
		if !mode.IsBookable() {
			return ErrSlotUnavailable
		}

		created, err = uc.bookingRepo.Create(txCtx, &domain.Booking{
			ProviderID: req.ProviderID,
			ClaimantID: req.Caller.UserID,
			Week:       week,
			SlotLabel:  label,
			Mode:       mode,
			Status:     domain.StatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return err
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrSlotTaken):
			uc.logger.Warn("CreateBooking: slot %s of provider=%s week %d is already booked", label, req.ProviderID, week)
			uc.record(outcomeConflict)
			return nil, ErrSlotUnavailable
		case errors.Is(err, ErrSlotUnavailable):
			uc.logger.Warn("CreateBooking: slot %s of provider=%s week %d is not open", label, req.ProviderID, week)
			uc.record(outcomeUnavailable)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateBooking: %v", err)
			return nil, err
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.record(outcomeCreated)
	uc.logger.Info("CreateBooking: booking id=%s created for user=%s, provider=%s, slot=%s, week=%d, mode=%s",
		created.ID, created.ClaimantID, created.ProviderID, created.SlotLabel, created.Week, created.Mode)

	return &Response{
		Booking:    created,
		WeekOffset: req.WeekOffset,
		SlotStart:  slotStart,
		DateLabel:  slotStart.Format(domain.DateLabelFormat),
	}, nil
}

func (uc *UseCase) record(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordBooking(outcome)
	}
}
