package memory

import (
	"context"
	"slices"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	rulesRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RulesRepository недельные правила и исключения в памяти
type RulesRepository struct {
	s *Store
}

// ListWeekly возвращает недельные правила хоста по дню недели и началу
func (r *RulesRepository) ListWeekly(ctx context.Context, hostID int64) ([]*domain.WeeklyRule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rules, _ := r.s.pendingWeekly.view(ctx, hostID, r.s.weekly[hostID], true)
	result := make([]*domain.WeeklyRule, 0, len(rules))
	for _, rule := range rules {
		result = append(result, cloneRule(rule))
	}
	slices.SortFunc(result, func(a, b *domain.WeeklyRule) int {
		if a.DayOfWeek != b.DayOfWeek {
			return int(a.DayOfWeek) - int(b.DayOfWeek)
		}
		return int(a.Start) - int(b.Start)
	})
	return result, nil
}

// ReplaceWeeklyDay заменяет окна дня недели
func (r *RulesRepository) ReplaceWeeklyDay(ctx context.Context, hostID int64, day time.Weekday, windows []domain.LocalInterval) ([]*domain.WeeklyRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev := r.s.weekly[hostID]
	next := make([]*domain.WeeklyRule, 0, len(prev)+len(windows))
	for _, rule := range prev {
		if rule.DayOfWeek != day {
			next = append(next, rule)
		}
	}

	now := time.Now().UTC()
	created := make([]*domain.WeeklyRule, 0, len(windows))
	for _, w := range windows {
		r.s.nextRuleID++
		rule := &domain.WeeklyRule{
			ID:        r.s.nextRuleID,
			HostID:    hostID,
			DayOfWeek: day,
			Start:     w.Start,
			End:       w.End,
			CreatedAt: now,
			UpdatedAt: now,
		}
		next = append(next, rule)
		created = append(created, cloneRule(rule))
	}

	r.s.pendingWeekly.touch(ctx, hostID, prev, true)
	r.s.weekly[hostID] = next
	record(ctx, func() { r.s.weekly[hostID] = prev })

	if len(created) == 0 {
		return nil, nil
	}
	return created, nil
}

// DeleteWeeklyDay удаляет окна дня недели
func (r *RulesRepository) DeleteWeeklyDay(ctx context.Context, hostID int64, day time.Weekday) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev := r.s.weekly[hostID]
	next := make([]*domain.WeeklyRule, 0, len(prev))
	for _, rule := range prev {
		if rule.DayOfWeek != day {
			next = append(next, rule)
		}
	}

	removed := int64(len(prev) - len(next))
	if removed > 0 {
		r.s.pendingWeekly.touch(ctx, hostID, prev, true)
		r.s.weekly[hostID] = next
		record(ctx, func() { r.s.weekly[hostID] = prev })
	}
	return removed, nil
}

// UpsertOverride сохраняет исключение на дату, перезаписывая прежнее
func (r *RulesRepository) UpsertOverride(ctx context.Context, override *domain.DateOverride) (*domain.DateOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byDate, ok := r.s.overrides[override.HostID]
	if !ok {
		byDate = make(map[types.Date]*domain.DateOverride)
		r.s.overrides[override.HostID] = byDate
	}

	now := time.Now().UTC()
	prev, existed := byDate[override.Date]
	if existed {
		override.ID = prev.ID
		override.CreatedAt = prev.CreatedAt
	} else {
		r.s.nextOverrideID++
		override.ID = r.s.nextOverrideID
		override.CreatedAt = now
	}
	override.UpdatedAt = now

	date := override.Date
	r.s.pendingOverrides.touch(ctx, overrideKey{hostID: override.HostID, date: date}, prev, existed)
	byDate[date] = cloneOverride(override)
	record(ctx, func() {
		if existed {
			byDate[date] = prev
			return
		}
		delete(byDate, date)
	})

	return override, nil
}

// GetOverride получает исключение на дату
func (r *RulesRepository) GetOverride(ctx context.Context, hostID int64, date types.Date) (*domain.DateOverride, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.overrides[hostID][date]
	o, ok = r.s.pendingOverrides.view(ctx, overrideKey{hostID: hostID, date: date}, o, ok)
	if !ok {
		return nil, rulesRepo.ErrOverrideNotFound
	}
	return cloneOverride(o), nil
}

// ListOverrides возвращает исключения хоста за период (границы включительно, опциональны)
func (r *RulesRepository) ListOverrides(ctx context.Context, hostID int64, from, to *types.Date) ([]*domain.DateOverride, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byDate := r.s.overrides[hostID]
	visible := make(map[types.Date]*domain.DateOverride, len(byDate))
	for date, o := range byDate {
		if o, ok := r.s.pendingOverrides.view(ctx, overrideKey{hostID: hostID, date: date}, o, true); ok {
			visible[date] = o
		}
	}
	// удаленные чужой открытой транзакцией
	deleted := r.s.pendingOverrides.hidden(ctx, func(k overrideKey) bool {
		_, ok := byDate[k.date]
		return k.hostID != hostID || ok
	})
	for k, o := range deleted {
		visible[k.date] = o
	}

	result := make([]*domain.DateOverride, 0, len(visible))
	for date, o := range visible {
		if from != nil && date.Before(*from) {
			continue
		}
		if to != nil && date.After(*to) {
			continue
		}
		result = append(result, cloneOverride(o))
	}
	slices.SortFunc(result, func(a, b *domain.DateOverride) int { return a.Date.Compare(b.Date) })
	return result, nil
}

// DeleteOverride удаляет исключение на дату
func (r *RulesRepository) DeleteOverride(ctx context.Context, hostID int64, date types.Date) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byDate := r.s.overrides[hostID]
	prev, ok := byDate[date]
	if !ok {
		return rulesRepo.ErrOverrideNotFound
	}

	r.s.pendingOverrides.touch(ctx, overrideKey{hostID: hostID, date: date}, prev, true)
	delete(byDate, date)
	record(ctx, func() { byDate[date] = prev })
	return nil
}
