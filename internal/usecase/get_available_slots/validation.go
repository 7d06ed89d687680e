package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// validateRequest валидирует входные данные запроса и возвращает период
func validateRequest(req *Request, maxRangeDays int) (domain.DateRange, error) {
	if req.HostID <= 0 {
		return domain.DateRange{}, fmt.Errorf("%w: hostID must be positive", ErrInvalidInput)
	}
	if req.EventTypeID <= 0 {
		return domain.DateRange{}, fmt.Errorf("%w: eventTypeID must be positive", ErrInvalidInput)
	}

	start, err := types.ParseDate(req.StartDate)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
	}
	end, err := types.ParseDate(req.EndDate)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: end: %v", ErrInvalidInput, err)
	}

	rng := domain.DateRange{Start: start, End: end}
	if err := rng.Validate(); err != nil {
		return domain.DateRange{}, err
	}
	if maxRangeDays > 0 && rng.Days() > maxRangeDays {
		return domain.DateRange{}, fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLong, rng.Days(), maxRangeDays)
	}

	return rng, nil
}

// viewerLocation возвращает часовой пояс отображения; пустой запрос означает пояс хоста
func viewerLocation(name string, host *time.Location) (*time.Location, error) {
	if name == "" {
		return host, nil
	}
	loc, err := types.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone: %v", ErrInvalidInput, err)
	}
	return loc, nil
}

// dropStarted убирает слоты, начавшиеся не позже now
func dropStarted(in []domain.Slot, now time.Time) []domain.Slot {
	out := make([]domain.Slot, 0, len(in))
	for _, s := range in {
		if s.Start.After(now) {
			out = append(out, s)
		}
	}
	return out
}
