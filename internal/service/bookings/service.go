package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	cache        SlotCache
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	cache SlotCache,
	publisher EventPublisher,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		cache:        cache,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetHostBookings получает бронирования хоста с фильтрацией по периоду и статусу.
// Результат упорядочен по началу встречи.
func (s *Service) GetHostBookings(ctx context.Context, req *models.GetHostBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetHostBookings: fetching bookings for host=%d", req.HostID)
	if req.StartDate != nil || req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", deref(req.StartDate), deref(req.EndDate))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	filter, err := toDomainFilter(req)
	if err != nil {
		s.logger.Warn("GetHostBookings: invalid filter for host=%d: %v", req.HostID, err)
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByHostWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetHostBookings: repository error for host=%d: %v", req.HostID, err)
		return nil, fmt.Errorf("%w: GetHostBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetHostBookings: fetched %d bookings for host=%d", len(bookings), req.HostID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет подтвержденное бронирование.
// Повторная отмена не является ошибкой, перенесенное бронирование отменить нельзя.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s", id)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// Хост нужен до транзакции: блокировка хоста всегда берется раньше блокировки строки
	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found", id)
			s.metrics.ObserveLedger("cancel", "not_found")
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	var (
		result  *domain.Booking
		changed bool
	)
	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.LockHost(ctx, current.HostID); err != nil {
			return fmt.Errorf("lock host: %w", err)
		}

		booking, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		switch booking.Status {
		case domain.StatusCancelled:
			result = booking
			return nil
		case domain.StatusRescheduled:
			return ErrCannotCancel
		}

		now := s.timeProvider.Now().UTC()
		if err := s.bookingRepo.Cancel(ctx, id, req.CancellationReason, now); err != nil {
			return err
		}

		booking.Status = domain.StatusCancelled
		booking.CancellationReason = req.CancellationReason
		booking.CancelledAt = &now
		booking.UpdatedAt = now
		result = booking
		changed = true
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotCancel):
			s.logger.Warn("Cancel: booking id=%s was rescheduled and cannot be cancelled", id)
			s.metrics.ObserveLedger("cancel", "not_confirmed")
			return nil, ErrCannotCancel
		case errors.Is(err, domain.ErrNotFound):
			s.metrics.ObserveLedger("cancel", "not_found")
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: transaction failed for booking id=%s: %v", id, err)
		s.metrics.ObserveLedger("cancel", "error")
		return nil, fmt.Errorf("%w: Cancel - %v", ErrInternal, err)
	}

	if !changed {
		s.logger.Info("Cancel: booking id=%s is already cancelled", id)
		s.metrics.ObserveLedger("cancel", "noop")
		return models.FromDomainBooking(result), nil
	}

	if err := s.cache.Invalidate(ctx, result.HostID); err != nil {
		s.logger.Warn("Cancel: failed to invalidate slot cache for host=%d: %v", result.HostID, err)
	}
	if err := s.publisher.PublishBooking(ctx, domain.EventBookingCancelled, result); err != nil {
		s.logger.Warn("Cancel: failed to publish event for booking id=%s: %v", id, err)
	}

	s.metrics.ObserveLedger("cancel", "ok")
	s.logger.Info("Cancel: successfully cancelled booking id=%s", id)
	return models.FromDomainBooking(result), nil
}

// toDomainFilter конвертирует request в domain фильтр
func toDomainFilter(req *models.GetHostBookingsRequest) (domain.HostBookingsFilter, error) {
	filter := domain.HostBookingsFilter{
		HostID:      req.HostID,
		EventTypeID: req.EventTypeID,
	}

	if req.StartDate != nil && *req.StartDate != "" {
		d, err := types.ParseDate(*req.StartDate)
		if err != nil {
			return filter, fmt.Errorf("%w: startDate: %v", ErrInvalidInput, err)
		}
		filter.StartDate = &d
	}
	if req.EndDate != nil && *req.EndDate != "" {
		d, err := types.ParseDate(*req.EndDate)
		if err != nil {
			return filter, fmt.Errorf("%w: endDate: %v", ErrInvalidInput, err)
		}
		filter.EndDate = &d
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return filter, fmt.Errorf("%w: startDate is after endDate", ErrInvalidInput)
	}

	if req.Status != nil && *req.Status != "" {
		status := domain.BookingStatus(strings.ToLower(*req.Status))
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	return filter, nil
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
