package availability

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-TutorBooking/pkg/ptr"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Service сервис чтения недельной доступности
type Service struct {
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	cache            WeekCache
	projector        *calendar.Projector
	window           domain.WeekWindow
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	cache WeekCache,
	projector *calendar.Projector,
	window domain.WeekWindow,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		cache:            cache,
		projector:        projector,
		window:           window,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// CalendarWeek возвращает границы недели, дни и сетку времени
func (s *Service) CalendarWeek(weekOffset int) (*models.CalendarWeekResponse, error) {
	if !s.window.Contains(weekOffset) {
		return nil, fmt.Errorf("%w: week offset %d is out of range [-%d, %d]",
			ErrInvalidInput, weekOffset, s.window.MaxPastWeeks, s.window.MaxFutureWeeks)
	}

	start, end := s.projector.WeekRange(weekOffset, s.timeProvider.Now())

	days := make([]models.DayResponse, 0, domain.DaysInWeek)
	for _, d := range domain.AllWeekdays() {
		date := start.AddDate(0, 0, int(d))
		days = append(days, models.DayResponse{
			Day:      d.String(),
			FullName: d.FullName(),
			Date:     date.Format(domain.DateFormat),
		})
	}

	grid := s.projector.TimeSlots()
	timeSlots := make([]string, 0, len(grid))
	for _, ts := range grid {
		timeSlots = append(timeSlots, ts.String())
	}

	return &models.CalendarWeekResponse{
		WeekOffset: weekOffset,
		WeekStart:  start,
		WeekEnd:    end,
		Timezone:   s.projector.Location().String(),
		Days:       days,
		TimeSlots:  timeSlots,
	}, nil
}

// GetWeek возвращает доступность преподавателя на неделю вместе с занятыми слотами.
// Режимы читаются через кэш, бронирования всегда из БД.
func (s *Service) GetWeek(ctx context.Context, providerID uuid.UUID, weekOffset int) (*models.WeekAvailabilityResponse, error) {
	s.logger.Info("GetWeek: provider=%s, week_offset=%d", providerID, weekOffset)

	if providerID == uuid.Nil {
		return nil, fmt.Errorf("%w: provider id is required", ErrInvalidInput)
	}

	calendarWeek, err := s.CalendarWeek(weekOffset)
	if err != nil {
		s.logger.Warn("GetWeek: validation failed: %v", err)
		return nil, err
	}

	week := s.projector.WeekFor(weekOffset, s.timeProvider.Now())

	slots, err := s.loadWeek(ctx, providerID, week)
	if err != nil {
		s.logger.Error("GetWeek: failed to load availability for provider=%s, week=%d: %v", providerID, week, err)
		return nil, fmt.Errorf("%w: GetWeek - repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		ProviderID: ptr.Ptr(providerID),
		FromWeek:   ptr.Ptr(week),
		ToWeek:     ptr.Ptr(week),
	})
	if err != nil {
		s.logger.Error("GetWeek: failed to load bookings for provider=%s, week=%d: %v", providerID, week, err)
		return nil, fmt.Errorf("%w: GetWeek - repository error: %v", ErrInternal, err)
	}

	resp := &models.WeekAvailabilityResponse{
		CalendarWeekResponse: *calendarWeek,
		ProviderID:           providerID,
		Slots:                make(map[string]string, len(slots)),
		BookedSlots:          make([]string, 0, len(bookings)),
	}
	for label, mode := range slots {
		resp.Slots[label.String()] = string(mode)
	}
	for _, b := range bookings {
		resp.BookedSlots = append(resp.BookedSlots, b.SlotLabel.String())
	}
	sort.Strings(resp.BookedSlots)

	return resp, nil
}

// loadWeek читает неделю через кэш; ошибки кэша не мешают чтению из БД.
// В кэш кладется только неделя, которую не инвалидировали между промахом и записью.
func (s *Service) loadWeek(ctx context.Context, providerID uuid.UUID, week domain.Week) (domain.WeekAvailability, error) {
	cached, version, found, cacheErr := s.cache.Get(ctx, providerID, week)
	switch {
	case cacheErr != nil:
		s.logger.Warn("GetWeek: cache read failed for provider=%s, week=%d: %v", providerID, week, cacheErr)
		s.recordCache(cacheError)
	case found:
		s.recordCache(cacheHit)
		return cached, nil
	default:
		s.recordCache(cacheMiss)
	}

	slots, err := s.availabilityRepo.GetWeek(ctx, providerID, week)
	if err != nil {
		return nil, err
	}

	if cacheErr != nil {
		// версия неизвестна, запись могла бы перетереть свежую инвалидацию
		return slots, nil
	}

	stored, err := s.cache.Set(ctx, providerID, week, slots, version)
	switch {
	case err != nil:
		s.logger.Warn("GetWeek: cache write failed for provider=%s, week=%d: %v", providerID, week, err)
	case !stored:
		s.logger.Info("GetWeek: week=%d of provider=%s changed while loading, cache write skipped", week, providerID)
	}
	return slots, nil
}

func (s *Service) recordCache(result string) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(result)
	}
}
