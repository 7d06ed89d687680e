package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// IntervalDTO окно "HH:MM"-"HH:MM" в локальном времени хоста
type IntervalDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ToDomain разбирает окно. Ошибки формата оборачивают domain.ErrInvalidRange.
func (i IntervalDTO) ToDomain() (domain.LocalInterval, error) {
	start, err := types.ParseTimeOfDay(i.Start)
	if err != nil {
		return domain.LocalInterval{}, fmt.Errorf("%w: start: %v", domain.ErrInvalidRange, err)
	}
	end, err := types.ParseTimeOfDay(i.End)
	if err != nil {
		return domain.LocalInterval{}, fmt.Errorf("%w: end: %v", domain.ErrInvalidRange, err)
	}
	return domain.LocalInterval{Start: start, End: end}, nil
}

// SetWeeklyRuleRequest добавление окна к дню недели (0 - воскресенье)
type SetWeeklyRuleRequest struct {
	DayOfWeek int    `json:"dayOfWeek"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// SetOverrideRequest исключение на дату
type SetOverrideRequest struct {
	Mode      string        `json:"mode"` // replace | add
	Intervals []IntervalDTO `json:"intervals"`
}

// Response модели

// WeeklyDayResponse окна одного дня недели после слияния
type WeeklyDayResponse struct {
	DayOfWeek int           `json:"dayOfWeek"`
	Intervals []IntervalDTO `json:"intervals"`
}

// WeeklyRulesResponse недельное расписание хоста
type WeeklyRulesResponse struct {
	HostID int64               `json:"hostId"`
	Days   []WeeklyDayResponse `json:"days"`
}

// OverrideResponse сохраненное исключение
type OverrideResponse struct {
	HostID    int64         `json:"hostId"`
	Date      string        `json:"date"`
	Mode      string        `json:"mode"`
	Intervals []IntervalDTO `json:"intervals"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// OverrideListResponse исключения хоста за период
type OverrideListResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
	Total     int                `json:"total"`
}

// ResolvedIntervalResponse абсолютное окно доступности
type ResolvedIntervalResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityResponse результат resolve(date)
type AvailabilityResponse struct {
	HostID    int64                      `json:"hostId"`
	Date      string                     `json:"date"`
	Timezone  string                     `json:"timezone"`
	Intervals []ResolvedIntervalResponse `json:"intervals"`
}

// FromLocalIntervals конвертирует окна в DTO
func FromLocalIntervals(in []domain.LocalInterval) []IntervalDTO {
	out := make([]IntervalDTO, 0, len(in))
	for _, iv := range in {
		out = append(out, IntervalDTO{Start: iv.Start.String(), End: iv.End.String()})
	}
	return out
}

// FromWeeklyRules группирует правила по дням недели, пропуская пустые дни
func FromWeeklyRules(hostID int64, rules []*domain.WeeklyRule) *WeeklyRulesResponse {
	var byDay [7][]domain.LocalInterval
	for _, r := range rules {
		byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], r.Interval())
	}

	resp := &WeeklyRulesResponse{HostID: hostID, Days: make([]WeeklyDayResponse, 0, 7)}
	for day, windows := range byDay {
		if len(windows) == 0 {
			continue
		}
		resp.Days = append(resp.Days, WeeklyDayResponse{DayOfWeek: day, Intervals: FromLocalIntervals(windows)})
	}
	return resp
}

// FromDomainOverride конвертирует исключение в ответ
func FromDomainOverride(o *domain.DateOverride) *OverrideResponse {
	return &OverrideResponse{
		HostID:    o.HostID,
		Date:      o.Date.String(),
		Mode:      string(o.Mode),
		Intervals: FromLocalIntervals(o.Intervals),
		UpdatedAt: o.UpdatedAt,
	}
}

// FromResolved конвертирует разрешенные окна, отображая их в зоне loc
func FromResolved(hostID int64, date types.Date, loc *time.Location, resolved []domain.ResolvedInterval) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		HostID:    hostID,
		Date:      date.String(),
		Timezone:  loc.String(),
		Intervals: make([]ResolvedIntervalResponse, 0, len(resolved)),
	}
	for _, r := range resolved {
		resp.Intervals = append(resp.Intervals, ResolvedIntervalResponse{Start: r.Start.In(loc), End: r.End.In(loc)})
	}
	return resp
}
