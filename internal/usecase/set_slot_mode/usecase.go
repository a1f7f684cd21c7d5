package set_slot_mode

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TutorBooking/internal/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/booking"
)

// UseCase use case для изменения режима слота провайдером
type UseCase struct {
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	cache            WeekCache
	txManager        TransactionManager
	projector        *calendar.Projector
	window           domain.WeekWindow
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	cache WeekCache,
	txManager TransactionManager,
	projector *calendar.Projector,
	window domain.WeekWindow,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		cache:            cache,
		txManager:        txManager,
		projector:        projector,
		window:           window,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute устанавливает режим слота. Повторный вызов с тем же режимом ничего не меняет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SetSlotMode: caller=%s, provider=%s, week_offset=%d, slot=%s, mode=%s",
		req.Caller.UserID, req.ProviderID, req.WeekOffset, req.SlotLabel, req.Mode)

	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		uc.logger.Warn("SetSlotMode: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return uc.apply(ctx, "SetSlotMode", req, func(context.Context, domain.SlotKey) (domain.Mode, error) {
		return mode, nil
	})
}

// Toggle переключает режим слота по циклу unavailable -> onsite -> remote -> unavailable
func (uc *UseCase) Toggle(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ToggleSlotMode: caller=%s, provider=%s, week_offset=%d, slot=%s",
		req.Caller.UserID, req.ProviderID, req.WeekOffset, req.SlotLabel)

	return uc.apply(ctx, "ToggleSlotMode", req, func(txCtx context.Context, key domain.SlotKey) (domain.Mode, error) {
		current, err := uc.availabilityRepo.GetModeForUpdate(txCtx, key)
		if err != nil {
			return "", err
		}
		return current.Next(), nil
	})
}

type decideFunc func(txCtx context.Context, key domain.SlotKey) (domain.Mode, error)

func (uc *UseCase) apply(ctx context.Context, op string, req *Request, decide decideFunc) (*Response, error) {
	label, err := uc.validateRequest(req)
	if err != nil {
		uc.logger.Warn("%s: validation failed: %v", op, err)
		return nil, err
	}

	if err := checkOwner(req.Caller, req.ProviderID); err != nil {
		uc.logger.Warn("%s: caller=%s (%s) is not the owner of provider=%s schedule",
			op, req.Caller.UserID, req.Caller.Role, req.ProviderID)
		return nil, err
	}

	now := uc.timeProvider.Now()
	week := uc.projector.WeekFor(req.WeekOffset, now)

	slotStart, err := uc.projector.SlotTime(label, week)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if slotStart.Before(now) {
		uc.logger.Warn("%s: slot %s of week %d already started at %s", op, label, week, slotStart.Format(domain.DateLabelFormat))
		return nil, ErrSlotInPast
	}

	key := domain.SlotKey{ProviderID: req.ProviderID, Week: week, SlotLabel: label}
	var newMode domain.Mode

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		mode, err := decide(txCtx, key)
		if err != nil {
			return fmt.Errorf("%w: failed to read current mode: %v", ErrInternal, err)
		}
		newMode = mode

		// Сначала пишем, потом проверяем бронь: конкурентное бронирование читает строку FOR SHARE
		if err := uc.availabilityRepo.Upsert(txCtx, domain.AvailabilityEntry{
			ProviderID: key.ProviderID,
			Week:       key.Week,
			SlotLabel:  key.SlotLabel,
			Mode:       mode,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("%w: failed to upsert slot: %v", ErrInternal, err)
		}

		if mode.IsBookable() {
			return nil
		}

		_, err = uc.bookingRepo.GetActiveBySlot(txCtx, key)
		switch {
		case err == nil:
			return ErrSlotBooked
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil
		default:
			return fmt.Errorf("%w: failed to check active booking: %v", ErrInternal, err)
		}
	})
	if err != nil {
		if errors.Is(err, ErrSlotBooked) {
			uc.logger.Warn("%s: slot %s of provider=%s week %d has an active booking", op, label, req.ProviderID, week)
			return nil, err
		}
		uc.logger.Error("%s: transaction failed for provider=%s, slot=%s: %v", op, req.ProviderID, label, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := uc.cache.Invalidate(ctx, req.ProviderID, week); err != nil {
		uc.logger.Warn("%s: failed to invalidate cache for provider=%s, week=%d: %v", op, req.ProviderID, week, err)
	}

	uc.logger.Info("%s: provider=%s, slot=%s, week=%d -> %s", op, req.ProviderID, label, week, newMode)

	return &Response{
		ProviderID: req.ProviderID,
		WeekOffset: req.WeekOffset,
		Week:       week,
		SlotLabel:  label,
		Mode:       newMode,
		SlotStart:  slotStart,
		UpdatedAt:  now,
	}, nil
}
