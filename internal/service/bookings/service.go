package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TutorBooking/internal/integrations/profileservice"
	"github.com/m04kA/SMC-TutorBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutorBooking/pkg/ptr"
)

// Policy правила отмены бронирований
type Policy struct {
	AllowProviderCancel bool          // Преподаватель может отменять бронирования своих слотов
	MinCancelNotice     time.Duration // 0 = без ограничения
}

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo   BookingRepository
	profileClient ProfileServiceClient
	txManager     TransactionManager
	projector     *calendar.Projector
	policy        Policy
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	projector *calendar.Projector,
	policy Policy,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		profileClient: profileClient,
		txManager:     txManager,
		projector:     projector,
		policy:        policy,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Cancel отменяет бронирование и освобождает слот.
//
// Отсутствующее или уже отмененное бронирование не ошибка: возвращается
// соответствующий Outcome. Студент отменяет свою бронь, преподаватель
// только если это разрешено политикой.
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.CancelBookingResponse, error) {
	s.logger.Info("CancelBooking: booking id=%s, caller=%s (%s)", req.BookingID, req.Caller.UserID, req.Caller.Role)

	if req.BookingID == uuid.Nil {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	var (
		outcome models.CancelOutcome
		booking *domain.Booking
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				outcome = models.OutcomeNotFound
				return nil
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// права проверяются до статуса: чужая бронь не раскрывается даже после отмены
		status, err := s.cancelStatus(req.Caller, current)
		if err != nil {
			return err
		}
		booking = current

		if !current.IsActive() {
			outcome = models.OutcomeAlreadyCancelled
			return nil
		}

		if s.policy.MinCancelNotice > 0 {
			slotStart, err := s.projector.SlotTime(current.SlotLabel, current.Week)
			if err != nil {
				return fmt.Errorf("%w: failed to project slot: %v", ErrInternal, err)
			}
			if slotStart.Sub(now) < s.policy.MinCancelNotice {
				return ErrTooLateToCancel
			}
		}

		changed, err := s.bookingRepo.Cancel(txCtx, current.ID, status, now)
		if err != nil {
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}
		if !changed {
			outcome = models.OutcomeAlreadyCancelled
			return nil
		}

		current.Status = status
		current.CancelledAt = ptr.Ptr(now)
		current.UpdatedAt = now
		outcome = models.OutcomeCancelled
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotPermitted), errors.Is(err, ErrTooLateToCancel):
			s.logger.Warn("CancelBooking: booking id=%s rejected for caller=%s: %v", req.BookingID, req.Caller.UserID, err)
			return nil, err
		default:
			s.logger.Error("CancelBooking: booking id=%s: %v", req.BookingID, err)
			if errors.Is(err, ErrInternal) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	s.logger.Info("CancelBooking: booking id=%s outcome=%s", req.BookingID, outcome)

	resp := &models.CancelBookingResponse{Outcome: outcome}
	if booking != nil {
		resp.Booking = s.toResponse(booking, now)
	}
	return resp, nil
}

// cancelStatus определяет итоговый статус отмены по роли вызывающего
func (s *Service) cancelStatus(caller domain.Identity, b *domain.Booking) (domain.BookingStatus, error) {
	switch {
	case caller.UserID == b.ClaimantID:
		return domain.StatusCancelledByClaimant, nil
	case s.policy.AllowProviderCancel && caller.IsProviderSelf(b.ProviderID):
		return domain.StatusCancelledByProvider, nil
	default:
		return "", ErrNotPermitted
	}
}

// GetByID получает бронирование по ID
// Бронирование видят только его студент и преподаватель
func (s *Service) GetByID(ctx context.Context, caller domain.Identity, id uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, caller.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !booking.IsParticipant(caller.UserID) {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", caller.UserID, id)
		return nil, ErrNotPermitted
	}

	return s.toResponse(booking, s.timeProvider.Now()), nil
}

// GetClaimantBookings получает бронирования студента с именами преподавателей
func (s *Service) GetClaimantBookings(ctx context.Context, req *models.GetClaimantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClaimantBookings: fetching bookings for user=%s, includeCancelled=%t", req.ClaimantID, req.IncludeCancelled)

	if req.Caller.UserID != req.ClaimantID {
		s.logger.Warn("GetClaimantBookings: user=%s requested bookings of user=%s", req.Caller.UserID, req.ClaimantID)
		return nil, ErrNotPermitted
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		ClaimantID:      ptr.Ptr(req.ClaimantID),
		IncludeInactive: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("GetClaimantBookings: repository error for user=%s: %v", req.ClaimantID, err)
		return nil, fmt.Errorf("%w: GetClaimantBookings - repository error: %v", ErrInternal, err)
	}

	resp := s.toListResponse(bookings)

	profiles := s.lookupProfiles(ctx, collect(bookings, func(b *domain.Booking) uuid.UUID { return b.ProviderID }))
	for i := range resp.Bookings {
		if p, ok := profiles[resp.Bookings[i].ProviderID]; ok {
			resp.Bookings[i].ProviderName = ptr.Ptr(p.FullName)
		}
	}

	s.logger.Info("GetClaimantBookings: successfully fetched %d bookings for user=%s", len(resp.Bookings), req.ClaimantID)
	return resp, nil
}

// GetProviderBookings получает бронирования слотов преподавателя с данными студентов
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%s, includeCancelled=%t", req.ProviderID, req.IncludeCancelled)

	if !req.Caller.IsProviderSelf(req.ProviderID) {
		s.logger.Warn("GetProviderBookings: user=%s requested bookings of provider=%s", req.Caller.UserID, req.ProviderID)
		return nil, ErrNotPermitted
	}

	if req.FromWeekOffset != nil && req.ToWeekOffset != nil && *req.FromWeekOffset > *req.ToWeekOffset {
		return nil, fmt.Errorf("%w: fromWeekOffset %d is after toWeekOffset %d", ErrInvalidInput, *req.FromWeekOffset, *req.ToWeekOffset)
	}

	now := s.timeProvider.Now()
	filter := domain.BookingsFilter{
		ProviderID:      ptr.Ptr(req.ProviderID),
		IncludeInactive: req.IncludeCancelled,
	}
	if req.FromWeekOffset != nil {
		filter.FromWeek = ptr.Ptr(s.projector.WeekFor(*req.FromWeekOffset, now))
	}
	if req.ToWeekOffset != nil {
		filter.ToWeek = ptr.Ptr(s.projector.WeekFor(*req.ToWeekOffset, now))
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	resp := s.toListResponse(bookings)

	profiles := s.lookupProfiles(ctx, collect(bookings, func(b *domain.Booking) uuid.UUID { return b.ClaimantID }))
	for i := range resp.Bookings {
		if p, ok := profiles[resp.Bookings[i].ClaimantID]; ok {
			resp.Bookings[i].ClaimantName = ptr.Ptr(p.FullName)
			resp.Bookings[i].ClaimantEmail = ptr.Ptr(p.Email)
		}
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%s", len(resp.Bookings), req.ProviderID)
	return resp, nil
}

func (s *Service) toResponse(b *domain.Booking, now time.Time) *models.BookingResponse {
	slotStart, err := s.projector.SlotTime(b.SlotLabel, b.Week)
	if err != nil {
		// метка в БД уже прошла валидацию при записи
		s.logger.Warn("booking id=%s has malformed slot label %q: %v", b.ID, b.SlotLabel, err)
		slotStart = s.projector.WeekStart(b.Week)
	}
	return models.FromDomainBooking(b, s.projector.OffsetOf(b.Week, now), slotStart)
}

// toListResponse конвертирует список и сортирует по времени начала слота
func (s *Service) toListResponse(bookings []*domain.Booking) *models.BookingListResponse {
	now := s.timeProvider.Now()
	resp := &models.BookingListResponse{
		Bookings: make([]models.BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *s.toResponse(b, now))
	}

	sort.SliceStable(resp.Bookings, func(i, j int) bool {
		return resp.Bookings[i].SlotStart.Before(resp.Bookings[j].SlotStart)
	})
	return resp
}

// lookupProfiles получает профили пользователей с graceful degradation
// При недоступности ProfileService ответ отдается без имен.
func (s *Service) lookupProfiles(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]*profileservice.Profile {
	profiles := make(map[uuid.UUID]*profileservice.Profile, len(ids))
	if s.profileClient == nil || !s.profileClient.Enabled() {
		return profiles
	}

	for _, id := range ids {
		profile, err := s.profileClient.GetProfileWithGracefulDegradation(ctx, id)
		if errors.Is(err, profileservice.ErrServiceDegraded) {
			return profiles
		}
		if err != nil {
			continue
		}
		profiles[id] = profile
	}
	return profiles
}

func collect(bookings []*domain.Booking, id func(*domain.Booking) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(bookings))
	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		v := id(b)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ids = append(ids, v)
	}
	return ids
}
