package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case для создания бронирования (reserve)
type UseCase struct {
	bookingRepo   BookingRepository
	eventTypeRepo EventTypeRepository
	rulesRepo     RulesRepository
	txManager     TransactionManager
	cache         SlotCache
	publisher     EventPublisher
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	eventTypeRepo EventTypeRepository,
	rulesRepo RulesRepository,
	txManager TransactionManager,
	cache SlotCache,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		eventTypeRepo: eventTypeRepo,
		rulesRepo:     rulesRepo,
		txManager:     txManager,
		cache:         cache,
		publisher:     publisher,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка слота и запись выполняются в сериализуемой транзакции под блокировкой хоста,
// поэтому из конкурирующих запросов на один слот успешен ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: host=%d, eventType=%d, start=%s, end=%s",
		req.HostID, req.EventTypeID, req.StartAt.UTC().Format("2006-01-02T15:04Z07:00"), req.EndAt.UTC().Format("2006-01-02T15:04Z07:00"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.ObserveLedger("reserve", "invalid")
		return nil, err
	}

	// 2. Получаем тип события
	et, err := uc.eventTypeRepo.GetByID(ctx, req.EventTypeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("CreateBooking: event type id=%d not found", req.EventTypeID)
			uc.metrics.ObserveLedger("reserve", "not_found")
			return nil, ErrEventTypeNotFound
		}
		uc.logger.Error("CreateBooking: failed to get event type id=%d: %v", req.EventTypeID, err)
		return nil, fmt.Errorf("%w: failed to get event type: %v", ErrInternal, err)
	}
	if req.HostID != 0 && et.HostID != req.HostID {
		uc.logger.Warn("CreateBooking: event type id=%d does not belong to host=%d", et.ID, req.HostID)
		uc.metrics.ObserveLedger("reserve", "not_found")
		return nil, ErrEventTypeNotFound
	}
	if !et.IsActive {
		uc.logger.Warn("CreateBooking: event type id=%d is inactive", et.ID)
		uc.metrics.ObserveLedger("reserve", "inactive")
		return nil, ErrEventTypeInactive
	}

	// 3. Длина слота и время начала
	slot := domain.Slot{Start: req.StartAt.UTC(), End: req.EndAt.UTC()}
	if err := validateSlot(et.Config, slot, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.ObserveLedger("reserve", resultOf(err))
		return nil, err
	}

	date, err := slots.HostDate(et.Config, slot)
	if err != nil {
		uc.logger.Error("CreateBooking: event type id=%d has invalid timezone: %v", et.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 4. Проверка и запись в одной транзакции
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.LockHost(txCtx, et.HostID); err != nil {
			return fmt.Errorf("lock host: %w", err)
		}

		if err := uc.checkAvailable(txCtx, et, date, slot); err != nil {
			return err
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			HostID:      et.HostID,
			EventTypeID: et.ID,
			BookingDate: date,
			StartAt:     slot.Start,
			EndAt:       slot.End,
			Status:      domain.StatusConfirmed,
			Invitee:     req.Invitee,
			Notes:       req.Notes,
		})
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, uc.translate(err, et.HostID)
	}

	// 5. После коммита: кэш и событие
	if err := uc.cache.Invalidate(ctx, et.HostID); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate slot cache for host=%d: %v", et.HostID, err)
	}
	if err := uc.publisher.PublishBooking(ctx, domain.EventBookingConfirmed, result); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%s: %v", result.ID, err)
	}

	uc.metrics.ObserveLedger("reserve", "ok")
	uc.logger.Info("CreateBooking: successfully created booking id=%s for host=%d", result.ID, et.HostID)
	return &Response{Booking: result}, nil
}

// checkAvailable проверяет, что слот есть в свежей генерации на его дату
func (uc *UseCase) checkAvailable(ctx context.Context, et *domain.EventType, date types.Date, slot domain.Slot) error {
	in, err := slots.LoadInput(ctx, uc.rulesRepo, uc.bookingRepo, et, domain.DateRange{Start: date, End: date}, nil)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}

	ok, err := slots.IsAvailable(in, slot, uc.timeProvider.Now())
	if err != nil {
		return fmt.Errorf("check slot: %w", err)
	}
	if !ok {
		uc.logger.Warn("CreateBooking: slot %s is no longer available for host=%d", slot.Start.Format("2006-01-02T15:04Z07:00"), et.HostID)
		return ErrSlotNotAvailable
	}
	return nil
}

// translate приводит ошибку транзакции к ошибкам usecase.
// Конфликт сериализации означает, что слот занял параллельный запрос.
func (uc *UseCase) translate(err error, hostID int64) error {
	switch {
	case errors.Is(err, ErrSlotNotAvailable):
		uc.metrics.ObserveLedger("reserve", "conflict")
		return ErrSlotNotAvailable
	case errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Warn("CreateBooking: serialization conflict for host=%d: %v", hostID, err)
		uc.metrics.ObserveLedger("reserve", "conflict")
		return fmt.Errorf("%w: concurrent reservation", ErrSlotNotAvailable)
	}

	uc.logger.Error("CreateBooking: transaction failed for host=%d: %v", hostID, err)
	uc.metrics.ObserveLedger("reserve", "error")
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

func resultOf(err error) string {
	if errors.Is(err, domain.ErrPastSlot) {
		return "past"
	}
	return "invalid"
}
