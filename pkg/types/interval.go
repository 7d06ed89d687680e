package types

import (
	"slices"
	"time"
)

// Interval полуоткрытый интервал [Start, End) абсолютного времени
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration длительность интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// IsEmpty возвращает true для интервала нулевой или отрицательной длины
func (i Interval) IsEmpty() bool {
	return !i.End.After(i.Start)
}

// Overlaps проверяет пересечение (строгие неравенства, касание границами не пересечение)
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains проверяет, что other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Shrink сужает интервал: before отрезается от начала, after от конца
func (i Interval) Shrink(before, after time.Duration) Interval {
	return Interval{Start: i.Start.Add(before), End: i.End.Add(-after)}
}

// Expand расширяет интервал: before добавляется к началу, after к концу
func (i Interval) Expand(before, after time.Duration) Interval {
	return Interval{Start: i.Start.Add(-before), End: i.End.Add(after)}
}

// In переводит границы интервала в зону loc, сами моменты не меняются
func (i Interval) In(loc *time.Location) Interval {
	return Interval{Start: i.Start.In(loc), End: i.End.In(loc)}
}

// Equal сравнивает интервалы по моментам, без учета зоны
func (i Interval) Equal(other Interval) bool {
	return i.Start.Equal(other.Start) && i.End.Equal(other.End)
}

// MergeIntervals сортирует интервалы и объединяет пересекающиеся и смежные.
// Пустые интервалы отбрасываются. Входной слайс не изменяется.
func MergeIntervals(in []Interval) []Interval {
	items := make([]Interval, 0, len(in))
	for _, it := range in {
		if !it.IsEmpty() {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return nil
	}

	slices.SortFunc(items, func(a, b Interval) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.End.Compare(b.End)
	})

	merged := make([]Interval, 0, len(items))
	for _, cur := range items {
		if len(merged) == 0 {
			merged = append(merged, cur)
			continue
		}
		last := &merged[len(merged)-1]
		if cur.Start.After(last.End) {
			merged = append(merged, cur)
			continue
		}
		if cur.End.After(last.End) {
			last.End = cur.End
		}
	}
	return merged
}

// SubtractIntervals вычитает blocks из base. Один блок может разрезать интервал на два.
// Результат отсортирован и не содержит пустых интервалов.
func SubtractIntervals(base []Interval, blocks []Interval) []Interval {
	free := MergeIntervals(base)
	busy := MergeIntervals(blocks)
	if len(busy) == 0 {
		return free
	}

	var out []Interval
	for _, b := range free {
		cursor := b.Start
		for _, m := range busy {
			if !m.End.After(cursor) {
				continue
			}
			if !m.Start.Before(b.End) {
				break
			}
			if m.Start.After(cursor) {
				out = append(out, Interval{Start: cursor, End: m.Start})
			}
			cursor = m.End
			if !cursor.Before(b.End) {
				break
			}
		}
		if cursor.Before(b.End) {
			out = append(out, Interval{Start: cursor, End: b.End})
		}
	}
	return out
}
