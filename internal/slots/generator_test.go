package slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// 2024-06-03 is a Monday
var monday = types.MustDate("2024-06-03")

func at(date types.Date, hhmm string) time.Time {
	t, _ := types.LocalInstant(date, types.MustTimeOfDay(hhmm), time.UTC)
	return t
}

func scheduleWith(t *testing.T, day time.Weekday, windows ...[2]string) *availability.Schedule {
	t.Helper()
	s := availability.NewSchedule()
	for _, w := range windows {
		require.NoError(t, s.AddWeeklyRule(day, domain.LocalInterval{
			Start: types.MustTimeOfDay(w[0]),
			End:   types.MustTimeOfDay(w[1]),
		}))
	}
	return s
}

func config(duration int) domain.EventTypeConfig {
	return domain.EventTypeConfig{
		DurationMinutes:   duration,
		MaxBookingsPerDay: 100,
		HostTimezone:      "UTC",
	}
}

func oneDay(d types.Date) domain.DateRange {
	return domain.DateRange{Start: d, End: d}
}

func confirmed(eventTypeID int64, start, end time.Time) *domain.Booking {
	return &domain.Booking{
		ID:          uuid.New(),
		HostID:      1,
		EventTypeID: eventTypeID,
		BookingDate: types.DateOf(start),
		StartAt:     start,
		EndAt:       end,
		Status:      domain.StatusConfirmed,
	}
}

func generate(t *testing.T, in Input) []domain.Slot {
	t.Helper()
	seq, err := Generate(in)
	require.NoError(t, err)
	return Collect(seq)
}

func starts(slots []domain.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.Format("15:04"))
	}
	return out
}

func TestGenerate_StepsByDuration(t *testing.T) {
	in := Input{
		HostID:      1,
		EventTypeID: 10,
		Config:      config(30),
		Range:       oneDay(monday),
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "11:00"}),
	}

	got := generate(t, in)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, starts(got))
	for _, s := range got {
		assert.Equal(t, 30*time.Minute, s.Duration())
	}
}

func TestGenerate_FitBoundary(t *testing.T) {
	exact := Input{Config: config(45), Range: oneDay(monday), Schedule: scheduleWith(t, time.Monday, [2]string{"09:00", "09:45"})}
	assert.Len(t, generate(t, exact), 1)

	short := Input{Config: config(45), Range: oneDay(monday), Schedule: scheduleWith(t, time.Monday, [2]string{"09:00", "09:44"})}
	assert.Empty(t, generate(t, short))

	partial := Input{Config: config(45), Range: oneDay(monday), Schedule: scheduleWith(t, time.Monday, [2]string{"09:00", "10:00"})}
	assert.Equal(t, []string{"09:00"}, starts(generate(t, partial)))
}

func TestGenerate_BookingSplitsInterval(t *testing.T) {
	in := Input{
		EventTypeID: 10,
		Config:      config(30),
		Range:       oneDay(monday),
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "12:00"}),
		Bookings:    []*domain.Booking{confirmed(10, at(monday, "10:15"), at(monday, "10:45"))},
	}

	assert.Equal(t, []string{"09:00", "09:30", "10:45", "11:15"}, starts(generate(t, in)))
}

func TestGenerate_IgnoresInactiveBookings(t *testing.T) {
	cancelled := confirmed(10, at(monday, "09:00"), at(monday, "09:30"))
	cancelled.Status = domain.StatusCancelled
	moved := confirmed(10, at(monday, "09:30"), at(monday, "10:00"))
	moved.Status = domain.StatusRescheduled

	in := Input{
		EventTypeID: 10,
		Config:      config(30),
		Range:       oneDay(monday),
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "10:00"}),
		Bookings:    []*domain.Booking{cancelled, moved},
	}

	assert.Equal(t, []string{"09:00", "09:30"}, starts(generate(t, in)))
}

func TestGenerate_Buffers(t *testing.T) {
	cfg := config(30)
	cfg.BufferBeforeMinutes = 10
	cfg.BufferAfterMinutes = 15

	in := Input{
		EventTypeID: 10,
		Config:      cfg,
		Range:       oneDay(monday),
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "12:00"}),
		Bookings:    []*domain.Booking{confirmed(10, at(monday, "10:30"), at(monday, "11:00"))},
	}

	got := generate(t, in)
	// Free: 09:00..10:20 before the buffered booking, 11:15..12:00 after it.
	// Shrunk by the slot's own buffers: 09:10..10:05 and 11:25..11:45.
	assert.Equal(t, []string{"09:10"}, starts(got))

	booking := in.Bookings[0].Interval().Expand(cfg.BufferBefore(), cfg.BufferAfter())
	for _, s := range got {
		buffered := s.Interval().Expand(cfg.BufferBefore(), cfg.BufferAfter())
		assert.False(t, buffered.Overlaps(booking), "slot %s overlaps buffered booking", s.Start)
	}
}

func TestGenerate_OtherEventTypeBlocksButDoesNotCount(t *testing.T) {
	cfg := config(30)
	cfg.MaxBookingsPerDay = 1

	in := Input{
		EventTypeID: 10,
		Config:      cfg,
		Range:       oneDay(monday),
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "10:00"}),
		Bookings:    []*domain.Booking{confirmed(20, at(monday, "09:00"), at(monday, "09:30"))},
	}

	assert.Equal(t, []string{"09:30"}, starts(generate(t, in)))
}

func TestGenerate_CapEnforcement(t *testing.T) {
	cfg := config(30)
	cfg.MaxBookingsPerDay = 1

	in := Input{
		EventTypeID: 10,
		Config:      cfg,
		Range:       oneDay(monday),
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "17:00"}),
	}
	assert.Equal(t, []string{"09:00"}, starts(generate(t, in)))

	in.Bookings = []*domain.Booking{confirmed(10, at(monday, "13:00"), at(monday, "13:30"))}
	assert.Empty(t, generate(t, in))
}

func TestGenerate_CapCountsRemaining(t *testing.T) {
	cfg := config(60)
	cfg.MaxBookingsPerDay = 3

	in := Input{
		EventTypeID: 10,
		Config:      cfg,
		Range:       oneDay(monday),
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "17:00"}),
		Bookings:    []*domain.Booking{confirmed(10, at(monday, "09:00"), at(monday, "10:00"))},
	}

	assert.Equal(t, []string{"10:00", "11:00"}, starts(generate(t, in)))
}

func TestGenerate_NotBeforeAppliedBeforeCap(t *testing.T) {
	cfg := config(30)
	cfg.MaxBookingsPerDay = 2

	in := Input{
		Config:    cfg,
		Range:     oneDay(monday),
		Schedule:  scheduleWith(t, time.Monday, [2]string{"09:00", "12:00"}),
		NotBefore: at(monday, "10:00"),
	}

	assert.Equal(t, []string{"10:30", "11:00"}, starts(generate(t, in)))
}

func TestGenerate_ViewerTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	cfg := config(60)
	cfg.HostTimezone = "America/New_York"

	in := Input{
		Config:   cfg,
		Range:    oneDay(monday),
		Schedule: scheduleWith(t, time.Monday, [2]string{"09:00", "10:00"}),
		Viewer:   tokyo,
	}

	got := generate(t, in)
	require.Len(t, got, 1)
	assert.Equal(t, tokyo, got[0].Start.Location())
	assert.Equal(t, "2024-06-03T22:00:00+09:00", got[0].Start.Format(time.RFC3339))
	assert.True(t, got[0].Start.Equal(time.Date(2024, 6, 3, 13, 0, 0, 0, time.UTC)))
}

func TestGenerate_DSTGapProducesNothing(t *testing.T) {
	cfg := config(30)
	cfg.HostTimezone = "America/New_York"
	day := types.MustDate("2024-03-10")

	in := Input{
		Config:   cfg,
		Range:    oneDay(day),
		Schedule: scheduleWith(t, time.Sunday, [2]string{"02:00", "03:00"}),
	}

	assert.Empty(t, generate(t, in))
}

func TestGenerate_InvalidRange(t *testing.T) {
	_, err := Generate(Input{
		Config:   config(30),
		Range:    domain.DateRange{Start: monday.AddDays(1), End: monday},
		Schedule: availability.NewSchedule(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = GenerateParallel(context.Background(), Input{
		Config:   config(30),
		Range:    domain.DateRange{Start: monday.AddDays(1), End: monday},
		Schedule: availability.NewSchedule(),
	}, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestGenerate_EmptyWhenNoAvailability(t *testing.T) {
	in := Input{Config: config(30), Range: oneDay(monday), Schedule: availability.NewSchedule()}
	assert.Empty(t, generate(t, in))
}

func TestGenerate_IdempotentAndRestartable(t *testing.T) {
	in := Input{
		EventTypeID: 10,
		Config:      config(30),
		Range:       domain.DateRange{Start: monday, End: monday.AddDays(13)},
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "12:00"}, [2]string{"13:00", "17:00"}),
		Bookings:    []*domain.Booking{confirmed(10, at(monday, "09:30"), at(monday, "10:00"))},
	}

	seq, err := Generate(in)
	require.NoError(t, err)
	first := Collect(seq)
	second := Collect(seq)
	assert.Equal(t, first, second)

	again := generate(t, in)
	assert.Equal(t, first, again)
	assert.Len(t, in.Bookings, 1)
}

func TestGenerate_SlotsDoNotOverlap(t *testing.T) {
	cfg := config(25)
	cfg.BufferBeforeMinutes = 5
	cfg.BufferAfterMinutes = 5

	in := Input{
		EventTypeID: 10,
		Config:      cfg,
		Range:       domain.DateRange{Start: monday, End: monday.AddDays(6)},
		Schedule:    scheduleWith(t, time.Monday, [2]string{"08:00", "18:00"}),
		Bookings: []*domain.Booking{
			confirmed(10, at(monday, "09:10"), at(monday, "09:35")),
			confirmed(11, at(monday, "14:00"), at(monday, "15:00")),
		},
	}

	got := generate(t, in)
	require.NotEmpty(t, got)
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			assert.False(t, got[i].Interval().Overlaps(got[j].Interval()))
		}
		for _, b := range in.Bookings {
			buffered := b.Interval().Expand(cfg.BufferBefore(), cfg.BufferAfter())
			assert.False(t, got[i].Interval().Expand(cfg.BufferBefore(), cfg.BufferAfter()).Overlaps(buffered))
		}
	}
}

func TestGenerate_StopsEarly(t *testing.T) {
	in := Input{
		Config:   config(30),
		Range:    domain.DateRange{Start: monday, End: monday.AddDays(27)},
		Schedule: scheduleWith(t, time.Monday, [2]string{"09:00", "17:00"}),
	}

	seq, err := Generate(in)
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestGenerateParallel_MatchesSequential(t *testing.T) {
	cfg := config(20)
	cfg.BufferAfterMinutes = 10
	cfg.MaxBookingsPerDay = 7
	cfg.HostTimezone = "Europe/Berlin"

	s := scheduleWith(t, time.Monday, [2]string{"09:00", "12:00"}, [2]string{"13:00", "17:00"})
	for _, day := range []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		require.NoError(t, s.AddWeeklyRule(day, domain.LocalInterval{Start: types.MustTimeOfDay("08:00"), End: types.MustTimeOfDay("16:00")}))
	}

	in := Input{
		EventTypeID: 10,
		Config:      cfg,
		Range:       domain.DateRange{Start: monday, End: monday.AddDays(60)},
		Schedule:    s,
		Bookings:    []*domain.Booking{confirmed(10, at(monday, "08:00"), at(monday, "08:20"))},
		Viewer:      time.UTC,
	}

	sequential := generate(t, in)
	parallel, err := GenerateParallel(context.Background(), in, 4)
	require.NoError(t, err)
	assert.Equal(t, sequential, parallel)
}

func TestGenerateParallel_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateParallel(ctx, Input{
		Config:   config(30),
		Range:    domain.DateRange{Start: monday, End: monday.AddDays(30)},
		Schedule: scheduleWith(t, time.Monday, [2]string{"09:00", "17:00"}),
	}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsAvailable(t *testing.T) {
	cfg := config(30)
	in := Input{
		EventTypeID: 10,
		Config:      cfg,
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "10:00"}),
		Bookings:    []*domain.Booking{confirmed(10, at(monday, "09:30"), at(monday, "10:00"))},
	}

	ok, err := IsAvailable(in, domain.Slot{Start: at(monday, "09:00"), End: at(monday, "09:30")}, time.Time{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsAvailable(in, domain.Slot{Start: at(monday, "09:30"), End: at(monday, "10:00")}, time.Time{})
	require.NoError(t, err)
	assert.False(t, ok)

	// off-grid start is never generated
	ok, err = IsAvailable(in, domain.Slot{Start: at(monday, "09:10"), End: at(monday, "09:40")}, time.Time{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAvailable_StartedSlotsDoNotUseDailyCap(t *testing.T) {
	cfg := config(30)
	cfg.MaxBookingsPerDay = 1
	in := Input{
		EventTypeID: 10,
		Config:      cfg,
		Schedule:    scheduleWith(t, time.Monday, [2]string{"09:00", "12:00"}),
	}
	now := at(monday, "09:40")

	// тот же слот, что отдает выдача со срезом по now
	in.Range = oneDay(monday)
	in.NotBefore = now
	seq, err := Generate(in)
	require.NoError(t, err)
	offered := Collect(seq)
	require.Len(t, offered, 1)
	assert.True(t, offered[0].Start.Equal(at(monday, "10:00")))

	ok, err := IsAvailable(in, offered[0], now)
	require.NoError(t, err)
	assert.True(t, ok)

	// NotBefore из in не учитывается, срез задает now
	in.NotBefore = time.Time{}
	ok, err = IsAvailable(in, offered[0], now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsAvailable(in, domain.Slot{Start: at(monday, "09:00"), End: at(monday, "09:30")}, now)
	require.NoError(t, err)
	assert.False(t, ok)
}
