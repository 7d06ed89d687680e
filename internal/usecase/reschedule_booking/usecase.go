package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// UseCase use case для переноса бронирования на другой слот
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

// Execute выполняет перенос: новое подтвержденное бронирование и перевод старого
// в rescheduled происходят в одной транзакции. При любой ошибке старое бронирование не меняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%s, start=%s, end=%s",
		req.BookingID, req.StartAt.UTC().Format("2006-01-02T15:04Z07:00"), req.EndAt.UTC().Format("2006-01-02T15:04Z07:00"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		uc.metrics.ObserveLedger("reschedule", "invalid")
		return nil, err
	}

	// 2. Текущее бронирование (хост и тип события) читаем до транзакции,
	// чтобы блокировка хоста бралась раньше блокировки строки
	current, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%s not found", req.BookingID)
			uc.metrics.ObserveLedger("reschedule", "not_found")
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	if !current.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%s has status=%s", current.ID, current.Status)
		uc.metrics.ObserveLedger("reschedule", "not_confirmed")
		return nil, ErrBookingNotConfirmed
	}

	// 3. Тип события
	et, err := uc.eventTypeRepo.GetByID(ctx, current.EventTypeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("RescheduleBooking: event type id=%d not found", current.EventTypeID)
			return nil, ErrEventTypeNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get event type id=%d: %v", current.EventTypeID, err)
		return nil, fmt.Errorf("%w: failed to get event type: %v", ErrInternal, err)
	}
	if !et.IsActive {
		uc.logger.Warn("RescheduleBooking: event type id=%d is inactive", et.ID)
		uc.metrics.ObserveLedger("reschedule", "inactive")
		return nil, ErrEventTypeInactive
	}

	// 4. Новый слот
	slot := domain.Slot{Start: req.StartAt.UTC(), End: req.EndAt.UTC()}
	if err := validateSlot(et.Config, slot, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("RescheduleBooking: %v", err)
		uc.metrics.ObserveLedger("reschedule", "invalid")
		return nil, err
	}
	date, err := slots.HostDate(et.Config, slot)
	if err != nil {
		uc.logger.Error("RescheduleBooking: event type id=%d has invalid timezone: %v", et.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5. Проверка и обе записи в одной транзакции
	var (
		created  *domain.Booking
		previous *domain.Booking
	)
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.LockHost(txCtx, current.HostID); err != nil {
			return fmt.Errorf("lock host: %w", err)
		}

		old, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return err
		}
		if !old.CanBeRescheduled() {
			return ErrBookingNotConfirmed
		}

		in, err := slots.LoadInput(txCtx, uc.rulesRepo, uc.bookingRepo, et, domain.DateRange{Start: date, End: date}, &old.ID)
		if err != nil {
			return fmt.Errorf("load schedule: %w", err)
		}
		ok, err := slots.IsAvailable(in, slot, uc.timeProvider.Now())
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if !ok {
			return ErrSlotNotAvailable
		}

		fromID := old.ID
		created, err = uc.bookingRepo.Create(txCtx, &domain.Booking{
			HostID:            old.HostID,
			EventTypeID:       old.EventTypeID,
			BookingDate:       date,
			StartAt:           slot.Start,
			EndAt:             slot.End,
			Status:            domain.StatusConfirmed,
			Invitee:           old.Invitee,
			Notes:             old.Notes,
			RescheduledFromID: &fromID,
		})
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		if err := uc.bookingRepo.MarkRescheduled(txCtx, old.ID); err != nil {
			return fmt.Errorf("mark rescheduled: %w", err)
		}

		previous = old
		return nil
	})
	if err != nil {
		return nil, uc.translate(err, req)
	}

	// 6. После коммита: кэш и событие
	if err := uc.cache.Invalidate(ctx, created.HostID); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to invalidate slot cache for host=%d: %v", created.HostID, err)
	}
	if err := uc.publisher.PublishBooking(ctx, domain.EventBookingRescheduled, created); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to publish event for booking id=%s: %v", created.ID, err)
	}

	uc.metrics.ObserveLedger("reschedule", "ok")
	uc.logger.Info("RescheduleBooking: booking id=%s moved to id=%s", previous.ID, created.ID)
	return &Response{
		Booking:      created,
		PreviousID:   previous.ID,
		PreviousSlot: domain.Slot{Start: previous.StartAt, End: previous.EndAt},
	}, nil
}

// translate приводит ошибку транзакции к ошибкам usecase
func (uc *UseCase) translate(err error, req *Request) error {
	switch {
	case errors.Is(err, ErrSlotNotAvailable):
		uc.logger.Warn("RescheduleBooking: new slot is not available for booking id=%s", req.BookingID)
		uc.metrics.ObserveLedger("reschedule", "conflict")
		return ErrSlotNotAvailable
	case errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Warn("RescheduleBooking: serialization conflict for booking id=%s: %v", req.BookingID, err)
		uc.metrics.ObserveLedger("reschedule", "conflict")
		return fmt.Errorf("%w: concurrent reservation", ErrSlotNotAvailable)
	case errors.Is(err, ErrBookingNotConfirmed):
		uc.logger.Warn("RescheduleBooking: booking id=%s changed status concurrently", req.BookingID)
		uc.metrics.ObserveLedger("reschedule", "not_confirmed")
		return ErrBookingNotConfirmed
	case errors.Is(err, domain.ErrNotFound):
		uc.metrics.ObserveLedger("reschedule", "not_found")
		return ErrBookingNotFound
	}

	uc.logger.Error("RescheduleBooking: transaction failed for booking id=%s: %v", req.BookingID, err)
	uc.metrics.ObserveLedger("reschedule", "error")
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
