// Package slots строит слоты для бронирования из доступности хоста.
//
// Генерация зависит только от Input и не изменяет его: один Input можно генерировать
// повторно и из нескольких горутин с одинаковым результатом.
package slots

import (
	"context"
	"fmt"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Input все, от чего зависит генерация слотов
type Input struct {
	HostID      int64
	EventTypeID int64
	Config      domain.EventTypeConfig
	Range       domain.DateRange
	Schedule    *availability.Schedule

	// Бронирования хоста вокруг периода. Учитываются только подтвержденные:
	// все занимают время, бронирования EventTypeID на ту же дату идут в дневной лимит.
	Bookings []*domain.Booking

	// Viewer часовой пояс для отображения, nil - пояс хоста
	Viewer *time.Location

	// NotBefore отбрасывает слоты, начавшиеся не позже этого момента. Нулевое значение отключает срез.
	NotBefore time.Time
}

// prepared неизменяемое состояние вызова, общее для всех дат
type prepared struct {
	in       Input
	hostLoc  *time.Location
	viewer   *time.Location
	duration time.Duration
	before   time.Duration
	after    time.Duration
	blocks   []types.Interval
	booked   map[types.Date]int
}

func prepare(in Input) (*prepared, error) {
	if err := in.Range.Validate(); err != nil {
		return nil, err
	}
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}
	if in.Schedule == nil {
		return nil, fmt.Errorf("%w: schedule is required", domain.ErrInvalidRange)
	}

	hostLoc, err := in.Config.Location()
	if err != nil {
		return nil, err
	}

	p := &prepared{
		in:       in,
		hostLoc:  hostLoc,
		viewer:   in.Viewer,
		duration: in.Config.Duration(),
		before:   in.Config.BufferBefore(),
		after:    in.Config.BufferAfter(),
		booked:   make(map[types.Date]int),
	}
	if p.viewer == nil {
		p.viewer = hostLoc
	}

	blocks := make([]types.Interval, 0, len(in.Bookings))
	for _, b := range in.Bookings {
		if !b.IsActive() {
			continue
		}
		blocks = append(blocks, b.Interval().Expand(p.before, p.after))
		if b.EventTypeID == in.EventTypeID {
			p.booked[b.BookingDate]++
		}
	}
	p.blocks = types.MergeIntervals(blocks)

	return p, nil
}

// forDate генерирует слоты одной даты хоста по возрастанию начала
func (p *prepared) forDate(date types.Date) []domain.Slot {
	remaining := p.in.Config.MaxBookingsPerDay - p.booked[date]
	if remaining <= 0 {
		return nil
	}

	resolved := p.in.Schedule.Resolve(date, p.hostLoc)
	if len(resolved) == 0 {
		return nil
	}

	open := make([]types.Interval, 0, len(resolved))
	for _, r := range resolved {
		open = append(open, r.Interval())
	}

	// Свободное время за вычетом бронирований, затем буферы самого слота
	free := types.SubtractIntervals(open, p.blocks)

	var out []domain.Slot
	for _, iv := range free {
		iv = iv.Shrink(p.before, p.after)
		for t := iv.Start; !t.Add(p.duration).After(iv.End); t = t.Add(p.duration) {
			if !p.in.NotBefore.IsZero() && !t.After(p.in.NotBefore) {
				continue
			}
			out = append(out, domain.Slot{Start: t, End: t.Add(p.duration)})
			if len(out) == remaining {
				return out
			}
		}
	}
	return out
}

func (p *prepared) render(s domain.Slot) domain.Slot {
	return s.In(p.viewer)
}

// Generate возвращает ленивую перезапускаемую последовательность слотов по дате и началу.
// Возвращает domain.ErrInvalidRange, если начало периода позже конца.
func Generate(in Input) (iter.Seq[domain.Slot], error) {
	p, err := prepare(in)
	if err != nil {
		return nil, err
	}

	dates := in.Range.Dates()
	return func(yield func(domain.Slot) bool) {
		for _, d := range dates {
			for _, s := range p.forDate(d) {
				if !yield(p.render(s)) {
					return
				}
			}
		}
	}, nil
}

// GenerateParallel считает даты параллельно не более чем в workers горутинах.
// Результат совпадает с Generate.
func GenerateParallel(ctx context.Context, in Input, workers int) ([]domain.Slot, error) {
	p, err := prepare(in)
	if err != nil {
		return nil, err
	}

	dates := in.Range.Dates()
	perDate := make([][]domain.Slot, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, d := range dates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perDate[i] = p.forDate(d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, s := range perDate {
		total += len(s)
	}
	out := make([]domain.Slot, 0, total)
	for _, day := range perDate {
		for _, s := range day {
			out = append(out, p.render(s))
		}
	}
	return out, nil
}

// Collect собирает последовательность в срез
func Collect(seq iter.Seq[domain.Slot]) []domain.Slot {
	var out []domain.Slot
	for s := range seq {
		out = append(out, s)
	}
	return out
}

// IsAvailable проверяет, что слот есть в свежей генерации на его дату хоста на момент now.
// Начавшиеся к now слоты отбрасываются до применения дневного лимита, как и в выдаче слотов.
// Период и NotBefore из in не используются.
func IsAvailable(in Input, slot domain.Slot, now time.Time) (bool, error) {
	if err := in.Config.Validate(); err != nil {
		return false, err
	}
	hostLoc, err := in.Config.Location()
	if err != nil {
		return false, err
	}

	date := types.DateOf(slot.Start.In(hostLoc))
	in.Range = domain.DateRange{Start: date, End: date}
	in.NotBefore = now

	p, err := prepare(in)
	if err != nil {
		return false, err
	}
	for _, s := range p.forDate(date) {
		if s.Equal(slot) {
			return true, nil
		}
	}
	return false, nil
}

// HostDate возвращает дату хоста, к которой относится слот
func HostDate(cfg domain.EventTypeConfig, slot domain.Slot) (types.Date, error) {
	loc, err := cfg.Location()
	if err != nil {
		return types.Date{}, err
	}
	return types.DateOf(slot.Start.In(loc)), nil
}
