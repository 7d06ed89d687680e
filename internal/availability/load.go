package availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RuleSource источник сохраненных правил хоста
type RuleSource interface {
	ListWeekly(ctx context.Context, hostID int64) ([]*domain.WeeklyRule, error)
	ListOverrides(ctx context.Context, hostID int64, from, to *types.Date) ([]*domain.DateOverride, error)
}

// Load строит снимок расписания хоста. Исключения читаются только за период [from, to].
func Load(ctx context.Context, src RuleSource, hostID int64, from, to types.Date) (*Schedule, error) {
	weekly, err := src.ListWeekly(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("load weekly rules: %w", err)
	}

	overrides, err := src.ListOverrides(ctx, hostID, &from, &to)
	if err != nil {
		return nil, fmt.Errorf("load date overrides: %w", err)
	}

	return FromRules(weekly, overrides)
}
