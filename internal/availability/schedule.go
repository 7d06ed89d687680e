// Package availability хранит недельные правила и исключения хоста и переводит их
// в абсолютные интервалы доступности для даты хоста.
//
// Schedule строится из снимка хранилища. Изменять его конкурентно нельзя,
// Resolve только читает и безопасен для вызова из нескольких горутин.
package availability

import (
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Schedule снимок правил доступности одного хоста
type Schedule struct {
	weekly    [7][]domain.LocalInterval
	overrides map[types.Date]domain.DateOverride
}

// NewSchedule создает пустое расписание (недоступен каждый день)
func NewSchedule() *Schedule {
	return &Schedule{overrides: make(map[types.Date]domain.DateOverride)}
}

// FromRules строит расписание из сохраненных правил и исключений.
// Недельные правила проходят то же слияние, что и в AddWeeklyRule.
func FromRules(rules []*domain.WeeklyRule, overrides []*domain.DateOverride) (*Schedule, error) {
	s := NewSchedule()
	for _, r := range rules {
		if err := s.AddWeeklyRule(r.DayOfWeek, r.Interval()); err != nil {
			return nil, fmt.Errorf("weekly rule id=%d: %w", r.ID, err)
		}
	}
	for _, o := range overrides {
		if err := s.SetOverride(*o); err != nil {
			return nil, fmt.Errorf("override %s: %w", o.Date, err)
		}
	}
	return s, nil
}

// AddWeeklyRule добавляет окно ко дню недели, сливая его с пересекающимися и смежными
func (s *Schedule) AddWeeklyRule(day time.Weekday, iv domain.LocalInterval) error {
	if err := domain.ValidateDayOfWeek(day); err != nil {
		return err
	}
	if err := iv.Validate(); err != nil {
		return err
	}
	s.weekly[day] = MergeLocal(append(slices.Clone(s.weekly[day]), iv))
	return nil
}

// ClearDay удаляет все окна дня недели
func (s *Schedule) ClearDay(day time.Weekday) error {
	if err := domain.ValidateDayOfWeek(day); err != nil {
		return err
	}
	s.weekly[day] = nil
	return nil
}

// Weekly возвращает окна дня недели
func (s *Schedule) Weekly(day time.Weekday) []domain.LocalInterval {
	if day < time.Sunday || day > time.Saturday {
		return nil
	}
	return slices.Clone(s.weekly[day])
}

// SetOverride сохраняет исключение на дату, действует последняя запись
func (s *Schedule) SetOverride(o domain.DateOverride) error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.Intervals = slices.Clone(o.Intervals)
	s.overrides[o.Date] = o
	return nil
}

// DeleteOverride удаляет исключение на дату
func (s *Schedule) DeleteOverride(date types.Date) {
	delete(s.overrides, date)
}

// Override возвращает исключение на дату
func (s *Schedule) Override(date types.Date) (domain.DateOverride, bool) {
	o, ok := s.overrides[date]
	return o, ok
}

// LocalWindows возвращает действующие окна даты по местным часам
func (s *Schedule) LocalWindows(date types.Date) []domain.LocalInterval {
	weekly := s.weekly[date.Weekday()]

	o, ok := s.overrides[date]
	if !ok {
		return slices.Clone(weekly)
	}

	switch o.Mode {
	case domain.OverrideReplace:
		return MergeLocal(slices.Clone(o.Intervals))
	case domain.OverrideAdd:
		return MergeLocal(append(slices.Clone(weekly), o.Intervals...))
	}
	return nil
}

// Resolve переводит окна даты в абсолютные интервалы в часовом поясе хоста.
//
// Время в пропуске при переходе на летнее время сдвигается на конец пропуска,
// окно целиком в пропуске отбрасывается. Неоднозначное время берется по первому вхождению.
// Результат отсортирован, слит и не содержит пустых интервалов.
func (s *Schedule) Resolve(date types.Date, loc *time.Location) []domain.ResolvedInterval {
	windows := s.LocalWindows(date)
	if len(windows) == 0 {
		return nil
	}

	abs := make([]types.Interval, 0, len(windows))
	for _, w := range windows {
		abs = append(abs, types.LocalInterval(date, w.Start, w.End, loc))
	}

	merged := types.MergeIntervals(abs)
	out := make([]domain.ResolvedInterval, 0, len(merged))
	for _, iv := range merged {
		out = append(out, domain.ResolvedInterval{Date: date, Start: iv.Start, End: iv.End})
	}
	return out
}

// MergeLocal сортирует окна и объединяет пересекающиеся и смежные
func MergeLocal(in []domain.LocalInterval) []domain.LocalInterval {
	if len(in) == 0 {
		return nil
	}
	slices.SortFunc(in, func(a, b domain.LocalInterval) int {
		if a.Start != b.Start {
			return int(a.Start) - int(b.Start)
		}
		return int(a.End) - int(b.End)
	})

	merged := make([]domain.LocalInterval, 0, len(in))
	for _, cur := range in {
		if len(merged) == 0 {
			merged = append(merged, cur)
			continue
		}
		last := &merged[len(merged)-1]
		if cur.Start > last.End {
			merged = append(merged, cur)
			continue
		}
		if cur.End > last.End {
			last.End = cur.End
		}
	}
	return merged
}
