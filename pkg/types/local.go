package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownTimezone возвращается для неизвестного IANA идентификатора
var ErrUnknownTimezone = errors.New("unknown timezone")

// LoadLocation загружает IANA зону. Пустая строка не считается UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	return loc, nil
}

// LocalInstant переводит локальное время tod на дату d в зоне loc в абсолютный момент.
//
// Второе значение false, если такого локального времени не существует (переход на летнее время).
// В этом случае возвращается момент окончания разрыва: 02:30 в день перевода часов
// превращается в 03:00 по новому смещению. Неоднозначное время (перевод назад)
// разрешается в первое вхождение. 24:00 означает полночь следующих суток.
func LocalInstant(d Date, tod TimeOfDay, loc *time.Location) (time.Time, bool) {
	if tod >= MinutesPerDay {
		d = d.AddDays(1)
		tod -= MinutesPerDay
	}

	// wall - локальные часы, записанные как UTC
	wall := time.Date(d.Year, d.Month, d.Day, tod.Hour(), tod.Minute(), 0, 0, time.UTC)

	var (
		earliest time.Time
		latest   time.Time
		found    bool
	)
	for _, probe := range []time.Time{wall.Add(-24 * time.Hour), wall, wall.Add(24 * time.Hour)} {
		_, offset := probe.In(loc).Zone()
		candidate := wall.Add(-time.Duration(offset) * time.Second)

		if latest.IsZero() || candidate.After(latest) {
			latest = candidate
		}
		if !sameWallClock(candidate.In(loc), wall) {
			continue
		}
		if !found || candidate.Before(earliest) {
			earliest = candidate
			found = true
		}
	}

	if found {
		return earliest.In(loc), true
	}

	// Разрыв: самый поздний кандидат посчитан по смещению до перехода и уже лежит
	// после него, начало его зоны и есть конец разрыва.
	start, _ := latest.In(loc).ZoneBounds()
	if start.IsZero() {
		return latest.In(loc), false
	}
	return start.In(loc), false
}

// LocalInterval переводит локальный интервал [start, end) на дату d в абсолютный.
// Интервал может получиться пустым, если целиком попадает в разрыв перевода часов.
func LocalInterval(d Date, start, end TimeOfDay, loc *time.Location) Interval {
	s, _ := LocalInstant(d, start, loc)
	e, _ := LocalInstant(d, end, loc)
	if e.Before(s) {
		e = s
	}
	return Interval{Start: s, End: e}
}

// DayBounds возвращает абсолютные границы суток d в зоне loc (длина может быть 23 или 25 часов)
func DayBounds(d Date, loc *time.Location) Interval {
	return LocalInterval(d, 0, MinutesPerDay, loc)
}

func sameWallClock(t time.Time, wall time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := wall.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 && t.Hour() == wall.Hour() && t.Minute() == wall.Minute()
}
