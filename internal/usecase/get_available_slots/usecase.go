package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotcache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/slots"
)

// Options ограничения генерации
type Options struct {
	MaxRangeDays int // максимальная длина периода в днях
	Workers      int // параллельных дат при генерации
}

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	eventTypeRepo EventTypeRepository
	rulesRepo     RulesRepository
	bookingRepo   BookingRepository
	cache         SlotCache
	metrics       Metrics
	opts          Options
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	eventTypeRepo EventTypeRepository,
	rulesRepo RulesRepository,
	bookingRepo BookingRepository,
	cache SlotCache,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventTypeRepo: eventTypeRepo,
		rulesRepo:     rulesRepo,
		bookingRepo:   bookingRepo,
		cache:         cache,
		metrics:       metrics,
		opts:          opts,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: host=%d, eventType=%d, period=%s to %s, timezone=%q",
		req.HostID, req.EventTypeID, req.StartDate, req.EndDate, req.Timezone)

	// 1. Валидация входных данных
	rng, err := validateRequest(req, uc.opts.MaxRangeDays)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем тип события
	et, err := uc.eventTypeRepo.GetByID(ctx, req.EventTypeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailableSlots: event type id=%d not found", req.EventTypeID)
			return nil, ErrEventTypeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get event type id=%d: %v", req.EventTypeID, err)
		return nil, fmt.Errorf("%w: failed to get event type: %v", ErrInternal, err)
	}
	if et.HostID != req.HostID {
		uc.logger.Warn("GetAvailableSlots: event type id=%d does not belong to host=%d", et.ID, req.HostID)
		return nil, ErrEventTypeNotFound
	}
	if !et.IsActive {
		uc.logger.Warn("GetAvailableSlots: event type id=%d is inactive", et.ID)
		return nil, ErrEventTypeInactive
	}

	hostLoc, err := et.Config.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: event type id=%d has invalid timezone: %v", et.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	viewer, err := viewerLocation(req.Timezone, hostLoc)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 3. Слоты из кэша или свежая генерация
	generated, err := uc.slots(ctx, et, rng)
	if err != nil {
		return nil, err
	}

	// 4. Отбрасываем начавшиеся слоты и переводим в пояс приглашенного
	visible := dropStarted(generated, uc.timeProvider.Now())
	result := make([]Slot, 0, len(visible))
	for _, s := range visible {
		s = s.In(viewer)
		result = append(result, Slot{Start: s.Start, End: s.End})
	}

	uc.metrics.ObserveSlots(len(result))
	uc.logger.Info("GetAvailableSlots: %d slots for host=%d, eventType=%d, period=%s to %s",
		len(result), req.HostID, req.EventTypeID, rng.Start, rng.End)

	return &Response{
		HostID:          et.HostID,
		EventTypeID:     et.ID,
		StartDate:       rng.Start,
		EndDate:         rng.End,
		Timezone:        viewer.String(),
		DurationMinutes: et.Config.DurationMinutes,
		Slots:           result,
	}, nil
}

// slots возвращает слоты периода в UTC.
// Поколение кэша читается до генерации: изменение, закоммиченное во время генерации,
// увеличит поколение, и записанный результат никто не прочитает.
func (uc *UseCase) slots(ctx context.Context, et *domain.EventType, rng domain.DateRange) ([]domain.Slot, error) {
	key := slotcache.Key{HostID: et.HostID, EventTypeID: et.ID, Start: rng.Start, End: rng.End}

	gen, err := uc.cache.Generation(ctx, et.HostID)
	cacheOK := err == nil
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: slot cache unavailable for host=%d: %v", et.HostID, err)
	}

	if cacheOK {
		cached, hit, err := uc.cache.Get(ctx, gen, key)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: failed to read slot cache for host=%d: %v", et.HostID, err)
		}
		uc.metrics.ObserveCache(hit)
		if hit {
			return cached, nil
		}
	}

	in, err := slots.LoadInput(ctx, uc.rulesRepo, uc.bookingRepo, et, rng, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load schedule for host=%d: %v", et.HostID, err)
		return nil, fmt.Errorf("%w: failed to load schedule: %v", ErrInternal, err)
	}
	in.NotBefore = uc.timeProvider.Now()

	generated, err := slots.GenerateParallel(ctx, in, uc.opts.Workers)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			uc.logger.Error("GetAvailableSlots: invalid configuration of event type id=%d: %v", et.ID, err)
		} else {
			uc.logger.Error("GetAvailableSlots: generation failed for host=%d: %v", et.HostID, err)
		}
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	utc := make([]domain.Slot, 0, len(generated))
	for _, s := range generated {
		utc = append(utc, s.In(time.UTC))
	}

	if cacheOK {
		if err := uc.cache.Set(ctx, gen, key, utc); err != nil {
			uc.logger.Warn("GetAvailableSlots: failed to write slot cache for host=%d: %v", et.HostID, err)
		}
	}
	return utc, nil
}
