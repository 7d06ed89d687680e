package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Slot окно для бронирования длиной ровно в одну встречу
type Slot struct {
	Start time.Time
	End   time.Time
}

// Interval возвращает окно слота
func (s Slot) Interval() types.Interval {
	return types.Interval{Start: s.Start, End: s.End}
}

// In переводит слот в часовой пояс loc, не меняя моменты времени
func (s Slot) In(loc *time.Location) Slot {
	return Slot{Start: s.Start.In(loc), End: s.End.In(loc)}
}

// Equal сравнивает моменты времени без учета часового пояса
func (s Slot) Equal(other Slot) bool {
	return s.Start.Equal(other.Start) && s.End.Equal(other.End)
}

// Duration возвращает End - Start
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// DateRange период дат хоста, границы включительно
type DateRange struct {
	Start types.Date
	End   types.Date
}

// Validate возвращает ErrInvalidRange, если начало позже конца
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: date range bounds are required", ErrInvalidRange)
	}
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Days возвращает число дат периода
func (r DateRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// Dates возвращает все даты периода по порядку
func (r DateRange) Dates() []types.Date {
	if r.Start.After(r.End) {
		return nil
	}
	dates := make([]types.Date, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}
