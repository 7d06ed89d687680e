package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func iv(fromHour, fromMin, toHour, toMin int) Interval {
	return Interval{
		Start: base.Add(time.Duration(fromHour)*time.Hour + time.Duration(fromMin)*time.Minute),
		End:   base.Add(time.Duration(toHour)*time.Hour + time.Duration(toMin)*time.Minute),
	}
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{name: "empty", in: nil, want: nil},
		{name: "overlap", in: []Interval{iv(11, 0, 17, 0), iv(9, 0, 12, 0)}, want: []Interval{iv(9, 0, 17, 0)}},
		{name: "adjacent", in: []Interval{iv(9, 0, 12, 0), iv(12, 0, 13, 0)}, want: []Interval{iv(9, 0, 13, 0)}},
		{name: "disjoint", in: []Interval{iv(18, 0, 20, 0), iv(9, 0, 17, 0)}, want: []Interval{iv(9, 0, 17, 0), iv(18, 0, 20, 0)}},
		{name: "contained", in: []Interval{iv(9, 0, 17, 0), iv(10, 0, 11, 0)}, want: []Interval{iv(9, 0, 17, 0)}},
		{name: "drops empty", in: []Interval{iv(9, 0, 9, 0), iv(10, 0, 11, 0)}, want: []Interval{iv(10, 0, 11, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeIntervals(tt.in))
		})
	}
}

func TestSubtractIntervals(t *testing.T) {
	tests := []struct {
		name   string
		base   []Interval
		blocks []Interval
		want   []Interval
	}{
		{
			name:   "no blocks",
			base:   []Interval{iv(9, 0, 17, 0)},
			blocks: nil,
			want:   []Interval{iv(9, 0, 17, 0)},
		},
		{
			name:   "split in two",
			base:   []Interval{iv(9, 0, 17, 0)},
			blocks: []Interval{iv(12, 0, 13, 0)},
			want:   []Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)},
		},
		{
			name:   "block covers start",
			base:   []Interval{iv(9, 0, 17, 0)},
			blocks: []Interval{iv(8, 0, 10, 0)},
			want:   []Interval{iv(10, 0, 17, 0)},
		},
		{
			name:   "block covers everything",
			base:   []Interval{iv(9, 0, 10, 0)},
			blocks: []Interval{iv(8, 0, 11, 0)},
			want:   nil,
		},
		{
			name:   "block spans two intervals",
			base:   []Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)},
			blocks: []Interval{iv(11, 0, 14, 0)},
			want:   []Interval{iv(9, 0, 11, 0), iv(14, 0, 17, 0)},
		},
		{
			name:   "touching block leaves interval intact",
			base:   []Interval{iv(9, 0, 10, 0)},
			blocks: []Interval{iv(10, 0, 11, 0), iv(8, 0, 9, 0)},
			want:   []Interval{iv(9, 0, 10, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubtractIntervals(tt.base, tt.blocks))
		})
	}
}

func TestInterval_Overlaps(t *testing.T) {
	assert.True(t, iv(9, 0, 10, 0).Overlaps(iv(9, 30, 10, 30)))
	assert.False(t, iv(9, 0, 10, 0).Overlaps(iv(10, 0, 10, 30)))
	assert.True(t, iv(9, 0, 17, 0).Contains(iv(16, 30, 17, 0)))
	assert.False(t, iv(9, 0, 17, 0).Contains(iv(16, 31, 17, 1)))
}
