package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusConfirmed   BookingStatus = "confirmed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusRescheduled BookingStatus = "rescheduled"
)

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

// Invitee контакты приглашенного
type Invitee struct {
	Name  string
	Email string
	Phone *string
}

// Booking зафиксированное бронирование слота. Физически не удаляется.
type Booking struct {
	ID          uuid.UUID
	HostID      int64
	EventTypeID int64
	BookingDate types.Date // дата StartAt в часовом поясе хоста
	StartAt     time.Time
	EndAt       time.Time
	Status      BookingStatus
	Invitee     Invitee
	Notes       *string

	// RescheduledFromID бронирование, которое заменило это
	RescheduledFromID *uuid.UUID

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если бронирование занимает слот
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// CanBeRescheduled возвращает true, если бронирование можно перенести
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled возвращает true, если бронирование отменено
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Interval возвращает окно встречи
func (b *Booking) Interval() types.Interval {
	return types.Interval{Start: b.StartAt, End: b.EndAt}
}

// HostBookingsFilter фильтр для получения бронирований хоста
type HostBookingsFilter struct {
	HostID      int64          // Обязательный параметр
	EventTypeID *int64         // Фильтр по типу события (опционально)
	StartDate   *types.Date    // Начало периода включительно (опционально)
	EndDate     *types.Date    // Конец периода включительно (опционально)
	Status      *BookingStatus // Фильтр по статусу (опционально)
	ExcludeID   *uuid.UUID     // Исключить бронирование (при переносе)
}

// BookingEventType тип события, публикуемого после коммита
type BookingEventType string

const (
	EventBookingConfirmed   BookingEventType = "booking.confirmed"
	EventBookingCancelled   BookingEventType = "booking.cancelled"
	EventBookingRescheduled BookingEventType = "booking.rescheduled"
)
