package slots

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// bookingMarginDays расширяет выборку бронирований вокруг периода: бронирование
// другого типа события хоста с буферами может занимать крайнюю дату.
const bookingMarginDays = 2

// BookingSource источник бронирований хоста
type BookingSource interface {
	GetByHostWithFilter(ctx context.Context, filter domain.HostBookingsFilter) ([]*domain.Booking, error)
}

// LoadInput читает снимок для генерации слотов et за период rng: расписание хоста
// и его подтвержденные бронирования вокруг периода.
// exclude исключает одно бронирование из проверки конфликтов и лимита.
func LoadInput(
	ctx context.Context,
	rules availability.RuleSource,
	bookings BookingSource,
	et *domain.EventType,
	rng domain.DateRange,
	exclude *uuid.UUID,
) (Input, error) {
	if err := rng.Validate(); err != nil {
		return Input{}, err
	}

	sched, err := availability.Load(ctx, rules, et.HostID, rng.Start, rng.End)
	if err != nil {
		return Input{}, err
	}

	from := rng.Start.AddDays(-bookingMarginDays)
	to := rng.End.AddDays(bookingMarginDays)
	status := domain.StatusConfirmed
	list, err := bookings.GetByHostWithFilter(ctx, domain.HostBookingsFilter{
		HostID:    et.HostID,
		StartDate: &from,
		EndDate:   &to,
		Status:    &status,
		ExcludeID: exclude,
	})
	if err != nil {
		return Input{}, fmt.Errorf("load bookings: %w", err)
	}

	return Input{
		HostID:      et.HostID,
		EventTypeID: et.ID,
		Config:      et.Config,
		Range:       rng,
		Schedule:    sched,
		Bookings:    list,
	}, nil
}
