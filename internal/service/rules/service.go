package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Service сервис правил доступности хоста (Rule Store)
type Service struct {
	rulesRepo RulesRepository
	locker    HostLocker
	txManager TransactionManager
	cache     SlotCache
	logger    Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(
	rulesRepo RulesRepository,
	locker HostLocker,
	txManager TransactionManager,
	cache SlotCache,
	logger Logger,
) *Service {
	return &Service{
		rulesRepo: rulesRepo,
		locker:    locker,
		txManager: txManager,
		cache:     cache,
		logger:    logger,
	}
}

// SetWeeklyRule добавляет окно к дню недели.
// Окно сливается с пересекающимися и смежными окнами того же дня.
func (s *Service) SetWeeklyRule(ctx context.Context, hostID int64, req *models.SetWeeklyRuleRequest) (*models.WeeklyRulesResponse, error) {
	s.logger.Info("SetWeeklyRule: host=%d, day=%d, window=%s-%s", hostID, req.DayOfWeek, req.Start, req.End)

	day := time.Weekday(req.DayOfWeek)
	if err := domain.ValidateDayOfWeek(day); err != nil {
		s.logger.Warn("SetWeeklyRule: invalid day for host=%d: %v", hostID, err)
		return nil, err
	}
	window, err := models.IntervalDTO{Start: req.Start, End: req.End}.ToDomain()
	if err != nil {
		s.logger.Warn("SetWeeklyRule: invalid window for host=%d: %v", hostID, err)
		return nil, err
	}
	if err := window.Validate(); err != nil {
		s.logger.Warn("SetWeeklyRule: invalid window for host=%d: %v", hostID, err)
		return nil, err
	}

	var saved []*domain.WeeklyRule
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.locker.LockHost(ctx, hostID); err != nil {
			return fmt.Errorf("lock host: %w", err)
		}

		existing, err := s.rulesRepo.ListWeekly(ctx, hostID)
		if err != nil {
			return fmt.Errorf("list weekly: %w", err)
		}
		sched, err := availability.FromRules(existing, nil)
		if err != nil {
			return fmt.Errorf("build schedule: %w", err)
		}
		if err := sched.AddWeeklyRule(day, window); err != nil {
			return err
		}

		if _, err := s.rulesRepo.ReplaceWeeklyDay(ctx, hostID, day, sched.Weekly(day)); err != nil {
			return fmt.Errorf("replace day: %w", err)
		}

		saved, err = s.rulesRepo.ListWeekly(ctx, hostID)
		if err != nil {
			return fmt.Errorf("list weekly: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			return nil, err
		}
		s.logger.Error("SetWeeklyRule: failed for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: SetWeeklyRule - %v", ErrInternal, err)
	}

	s.invalidate(ctx, "SetWeeklyRule", hostID)
	s.logger.Info("SetWeeklyRule: host=%d now has %d windows on day=%d", hostID, countDay(saved, day), req.DayOfWeek)
	return models.FromWeeklyRules(hostID, saved), nil
}

// DeleteWeeklyRules очищает все окна дня недели
func (s *Service) DeleteWeeklyRules(ctx context.Context, hostID int64, dayOfWeek int) error {
	s.logger.Info("DeleteWeeklyRules: host=%d, day=%d", hostID, dayOfWeek)

	day := time.Weekday(dayOfWeek)
	if err := domain.ValidateDayOfWeek(day); err != nil {
		return err
	}

	var removed int64
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.locker.LockHost(ctx, hostID); err != nil {
			return fmt.Errorf("lock host: %w", err)
		}
		n, err := s.rulesRepo.DeleteWeeklyDay(ctx, hostID, day)
		removed = n
		return err
	})
	if err != nil {
		s.logger.Error("DeleteWeeklyRules: failed for host=%d: %v", hostID, err)
		return fmt.Errorf("%w: DeleteWeeklyRules - %v", ErrInternal, err)
	}

	if removed > 0 {
		s.invalidate(ctx, "DeleteWeeklyRules", hostID)
	}
	s.logger.Info("DeleteWeeklyRules: removed %d windows for host=%d", removed, hostID)
	return nil
}

// ListWeeklyRules возвращает недельное расписание хоста
func (s *Service) ListWeeklyRules(ctx context.Context, hostID int64) (*models.WeeklyRulesResponse, error) {
	rules, err := s.rulesRepo.ListWeekly(ctx, hostID)
	if err != nil {
		s.logger.Error("ListWeeklyRules: repository error for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: ListWeeklyRules - repository error: %v", ErrInternal, err)
	}
	return models.FromWeeklyRules(hostID, rules), nil
}

// SetOverride сохраняет исключение на дату. Повторная запись на ту же дату заменяет предыдущую.
func (s *Service) SetOverride(ctx context.Context, hostID int64, date string, req *models.SetOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("SetOverride: host=%d, date=%s, mode=%s, intervals=%d", hostID, date, req.Mode, len(req.Intervals))

	override, err := buildOverride(hostID, date, req)
	if err != nil {
		s.logger.Warn("SetOverride: invalid override for host=%d: %v", hostID, err)
		return nil, err
	}

	var saved *domain.DateOverride
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.locker.LockHost(ctx, hostID); err != nil {
			return fmt.Errorf("lock host: %w", err)
		}
		saved, err = s.rulesRepo.UpsertOverride(ctx, override)
		return err
	})
	if err != nil {
		s.logger.Error("SetOverride: failed for host=%d date=%s: %v", hostID, date, err)
		return nil, fmt.Errorf("%w: SetOverride - %v", ErrInternal, err)
	}

	s.invalidate(ctx, "SetOverride", hostID)
	s.logger.Info("SetOverride: saved override for host=%d date=%s", hostID, date)
	return models.FromDomainOverride(saved), nil
}

// DeleteOverride удаляет исключение на дату
func (s *Service) DeleteOverride(ctx context.Context, hostID int64, date string) error {
	s.logger.Info("DeleteOverride: host=%d, date=%s", hostID, date)

	d, err := types.ParseDate(date)
	if err != nil {
		return fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.locker.LockHost(ctx, hostID); err != nil {
			return fmt.Errorf("lock host: %w", err)
		}
		return s.rulesRepo.DeleteOverride(ctx, hostID, d)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("DeleteOverride: no override for host=%d date=%s", hostID, date)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: failed for host=%d date=%s: %v", hostID, date, err)
		return fmt.Errorf("%w: DeleteOverride - %v", ErrInternal, err)
	}

	s.invalidate(ctx, "DeleteOverride", hostID)
	return nil
}

// ListOverrides возвращает исключения хоста за период (границы опциональны)
func (s *Service) ListOverrides(ctx context.Context, hostID int64, from, to *string) (*models.OverrideListResponse, error) {
	fromDate, err := parseOptionalDate(from)
	if err != nil {
		return nil, err
	}
	toDate, err := parseOptionalDate(to)
	if err != nil {
		return nil, err
	}
	if fromDate != nil && toDate != nil && fromDate.After(*toDate) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidInput, fromDate, toDate)
	}

	overrides, err := s.rulesRepo.ListOverrides(ctx, hostID, fromDate, toDate)
	if err != nil {
		s.logger.Error("ListOverrides: repository error for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: ListOverrides - repository error: %v", ErrInternal, err)
	}

	resp := &models.OverrideListResponse{Overrides: make([]models.OverrideResponse, 0, len(overrides)), Total: len(overrides)}
	for _, o := range overrides {
		resp.Overrides = append(resp.Overrides, *models.FromDomainOverride(o))
	}
	return resp, nil
}

// Resolve возвращает абсолютные окна доступности хоста на дату в зоне timezone
func (s *Service) Resolve(ctx context.Context, hostID int64, date, timezone string) (*models.AvailabilityResponse, error) {
	d, err := types.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
	}
	loc, err := types.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone: %v", ErrInvalidInput, err)
	}

	sched, err := availability.Load(ctx, s.rulesRepo, hostID, d, d)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			s.logger.Error("Resolve: stored rules of host=%d are invalid: %v", hostID, err)
		} else {
			s.logger.Error("Resolve: failed to load rules for host=%d: %v", hostID, err)
		}
		return nil, fmt.Errorf("%w: Resolve - %v", ErrInternal, err)
	}

	return models.FromResolved(hostID, d, loc, sched.Resolve(d, loc)), nil
}

// invalidate сбрасывает кэш слотов хоста. Ошибка кэша не отменяет записанное изменение.
func (s *Service) invalidate(ctx context.Context, op string, hostID int64) {
	if err := s.cache.Invalidate(ctx, hostID); err != nil {
		s.logger.Warn("%s: failed to invalidate slot cache for host=%d: %v", op, hostID, err)
	}
}

func buildOverride(hostID int64, date string, req *models.SetOverrideRequest) (*domain.DateOverride, error) {
	d, err := types.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
	}

	intervals := make([]domain.LocalInterval, 0, len(req.Intervals))
	for _, dto := range req.Intervals {
		iv, err := dto.ToDomain()
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}

	o := &domain.DateOverride{
		HostID:    hostID,
		Date:      d,
		Mode:      domain.OverrideMode(req.Mode),
		Intervals: intervals,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func parseOptionalDate(s *string) (*types.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := types.ParseDate(*s)
	if err != nil {
		return nil, fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
	}
	return &d, nil
}

func countDay(rules []*domain.WeeklyRule, day time.Weekday) int {
	n := 0
	for _, r := range rules {
		if r.DayOfWeek == day {
			n++
		}
	}
	return n
}
