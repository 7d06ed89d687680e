package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
)

// BookingRepository бронирования в памяти
type BookingRepository struct {
	s *Store
}

// LockHost берет блокировку хоста до конца транзакции. Повторный вызов в той же транзакции не блокирует.
func (r *BookingRepository) LockHost(ctx context.Context, hostID int64) error {
	tx, ok := txFrom(ctx)
	if !ok {
		return bookingRepo.ErrNotInTransaction
	}

	tx.mu.Lock()
	held := slices.Contains(tx.held, hostID)
	tx.mu.Unlock()
	if held {
		return nil
	}

	if err := r.s.locks.acquire(ctx, hostID); err != nil {
		return err
	}

	tx.mu.Lock()
	tx.held = append(tx.held, hostID)
	tx.mu.Unlock()
	return nil
}

// Create сохраняет бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	id := booking.ID
	r.s.pendingBookings.touch(ctx, id, nil, false)
	r.s.bookings[id] = cloneBooking(booking)
	record(ctx, func() { delete(r.s.bookings, id) })

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	b, ok = r.s.pendingBookings.view(ctx, id, b, ok)
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

// GetByHostWithFilter получает бронирования хоста по фильтру, по возрастанию начала
func (r *BookingRepository) GetByHostWithFilter(ctx context.Context, filter domain.HostBookingsFilter) ([]*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for id, b := range r.s.bookings {
		b, ok := r.s.pendingBookings.view(ctx, id, b, true)
		if !ok || b.HostID != filter.HostID {
			continue
		}
		if filter.EventTypeID != nil && b.EventTypeID != *filter.EventTypeID {
			continue
		}
		if filter.StartDate != nil && b.BookingDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && b.BookingDate.After(*filter.EndDate) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.ExcludeID != nil && b.ID == *filter.ExcludeID {
			continue
		}
		result = append(result, cloneBooking(b))
	}

	slices.SortFunc(result, func(a, b *domain.Booking) int {
		if c := a.StartAt.Compare(b.StartAt); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

// Cancel переводит подтвержденное бронирование в cancelled
func (r *BookingRepository) Cancel(ctx context.Context, id uuid.UUID, reason *string, cancelledAt time.Time) error {
	return r.transition(ctx, id, func(b *domain.Booking) {
		b.Status = domain.StatusCancelled
		b.CancellationReason = reason
		at := cancelledAt.UTC()
		b.CancelledAt = &at
	})
}

// MarkRescheduled переводит подтвержденное бронирование в rescheduled
func (r *BookingRepository) MarkRescheduled(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, id, func(b *domain.Booking) {
		b.Status = domain.StatusRescheduled
	})
}

func (r *BookingRepository) transition(ctx context.Context, id uuid.UUID, apply func(b *domain.Booking)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok || b.Status != domain.StatusConfirmed {
		return bookingRepo.ErrBookingNotFound
	}

	r.s.pendingBookings.touch(ctx, id, b, true)
	prev := cloneBooking(b)
	next := cloneBooking(b)
	apply(next)
	next.UpdatedAt = time.Now().UTC()
	r.s.bookings[id] = next
	record(ctx, func() { r.s.bookings[id] = prev })

	return nil
}
