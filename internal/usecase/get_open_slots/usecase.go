package get_open_slots

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/ptr"
)

// UseCase use case для поиска свободных слотов у одного или всех преподавателей
type UseCase struct {
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	profileClient    ProfileServiceClient
	projector        *calendar.Projector
	window           domain.WeekWindow
	maxWeeks         int
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	profileClient ProfileServiceClient,
	projector *calendar.Projector,
	window domain.WeekWindow,
	maxWeeks int,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		profileClient:    profileClient,
		projector:        projector,
		window:           window,
		maxWeeks:         maxWeeks,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute возвращает слоты в режиме onsite/remote без активной брони, отсортированные по времени начала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	provider := "all"
	if req.ProviderID != nil {
		provider = req.ProviderID.String()
	}
	uc.logger.Info("GetOpenSlots: provider=%s, from_week_offset=%d, weeks=%d", provider, req.FromWeekOffset, req.Weeks)

	if err := uc.normalizeRequest(req); err != nil {
		uc.logger.Warn("GetOpenSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	fromWeek := uc.projector.WeekFor(req.FromWeekOffset, now)
	toWeek := fromWeek + domain.Week(req.Weeks-1)

	entries, err := uc.availabilityRepo.ListBookable(ctx, domain.OpenSlotsFilter{
		ProviderID: req.ProviderID,
		FromWeek:   fromWeek,
		ToWeek:     toWeek,
	})
	if err != nil {
		uc.logger.Error("GetOpenSlots: failed to list availability: %v", err)
		return nil, fmt.Errorf("%w: failed to list availability: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		ProviderID: req.ProviderID,
		FromWeek:   ptr.Ptr(fromWeek),
		ToWeek:     ptr.Ptr(toWeek),
	})
	if err != nil {
		uc.logger.Error("GetOpenSlots: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	slots := uc.filterOpen(entries, bookings, now)
	uc.attachNames(ctx, slots)

	uc.logger.Info("GetOpenSlots: found %d open slots", len(slots))

	return &Response{
		FromWeekOffset: req.FromWeekOffset,
		Weeks:          req.Weeks,
		Slots:          slots,
	}, nil
}

func (uc *UseCase) attachNames(ctx context.Context, slots []Slot) {
	if len(slots) == 0 || uc.profileClient == nil {
		return
	}

	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, s := range slots {
		if _, ok := seen[s.ProviderID]; !ok {
			seen[s.ProviderID] = struct{}{}
			ids = append(ids, s.ProviderID)
		}
	}

	names := uc.profileClient.GetDisplayNames(ctx, ids)
	for i := range slots {
		if name, ok := names[slots[i].ProviderID]; ok {
			slots[i].ProviderName = ptr.Ptr(name)
		}
	}
}
