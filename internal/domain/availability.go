package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// OverrideMode способ сочетания исключения с недельными правилами
type OverrideMode string

const (
	// OverrideReplace заменяет недельные правила на дату. Без интервалов - выходной.
	OverrideReplace OverrideMode = "replace"
	// OverrideAdd объединяет интервалы исключения с недельными правилами даты.
	OverrideAdd OverrideMode = "add"
)

// IsValid проверяет, что режим известен
func (m OverrideMode) IsValid() bool {
	return m == OverrideReplace || m == OverrideAdd
}

// LocalInterval окно [Start, End) по местным часам в пределах одного дня хоста
type LocalInterval struct {
	Start types.TimeOfDay
	End   types.TimeOfDay
}

// Validate проверяет 00:00 <= start < end <= 24:00
func (i LocalInterval) Validate() error {
	if err := i.Start.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	if err := i.End.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	if !i.Start.IsBefore(i.End) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidRange, i.Start, i.End)
	}
	return nil
}

// Overlaps проверяет пересечение окон. Смежные окна не пересекаются.
func (i LocalInterval) Overlaps(other LocalInterval) bool {
	return i.Start < other.End && other.Start < i.End
}

func (i LocalInterval) String() string {
	return fmt.Sprintf("%s-%s", i.Start, i.End)
}

// WeeklyRule повторяющееся окно доступности на день недели
type WeeklyRule struct {
	ID        int64
	HostID    int64
	DayOfWeek time.Weekday
	Start     types.TimeOfDay
	End       types.TimeOfDay
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval возвращает окно правила
func (r *WeeklyRule) Interval() LocalInterval {
	return LocalInterval{Start: r.Start, End: r.End}
}

// ValidateDayOfWeek проверяет день недели: 0 (воскресенье)..6 (суббота)
func ValidateDayOfWeek(day time.Weekday) error {
	if day < time.Sunday || day > time.Saturday {
		return fmt.Errorf("%w: day of week %d out of range 0..6", ErrInvalidRange, int(day))
	}
	return nil
}

// DateOverride разовое исключение из недельных правил на дату хоста
type DateOverride struct {
	ID        int64
	HostID    int64
	Date      types.Date
	Mode      OverrideMode
	Intervals []LocalInterval
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет режим, интервалы и отсутствие пересечений между ними
func (o *DateOverride) Validate() error {
	if o.Date.IsZero() {
		return fmt.Errorf("%w: override date is required", ErrInvalidRange)
	}
	if !o.Mode.IsValid() {
		return fmt.Errorf("%w: unknown override mode %q", ErrInvalidRange, o.Mode)
	}
	for _, iv := range o.Intervals {
		if err := iv.Validate(); err != nil {
			return err
		}
	}

	sorted := slices.Clone(o.Intervals)
	slices.SortFunc(sorted, func(a, b LocalInterval) int { return int(a.Start) - int(b.Start) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return fmt.Errorf("%w: %s and %s", ErrOverlappingInterval, sorted[i-1], sorted[i])
		}
	}
	return nil
}

// IsUnavailable возвращает true для Replace без интервалов (выходной)
func (o *DateOverride) IsUnavailable() bool {
	return o.Mode == OverrideReplace && len(o.Intervals) == 0
}

// ResolvedInterval абсолютное окно доступности для даты хоста
type ResolvedInterval struct {
	Date  types.Date
	Start time.Time
	End   time.Time
}

// Interval возвращает абсолютное окно
func (r ResolvedInterval) Interval() types.Interval {
	return types.Interval{Start: r.Start, End: r.End}
}
