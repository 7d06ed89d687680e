package reschedule_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	slotgen "github.com/m04kA/SMC-SchedulingService/internal/slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEventType
}

func (p *recordingPublisher) PublishBooking(_ context.Context, eventType domain.BookingEventType, _ *domain.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) ObserveLedger(string, string) {}

var monday9 = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	et        *domain.EventType
	clock     *fixedClock
	publisher *recordingPublisher
	uc        *UseCase
}

// Понедельник 09:00-12:00 UTC, встречи по 30 минут, лимит 2 в день
func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithCap(t, 2)
}

func newFixtureWithCap(t *testing.T, maxPerDay int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	et, err := store.EventTypes().Create(ctx, &domain.EventType{
		HostID:   7,
		Title:    "Intro",
		Kind:     domain.KindOneOnOne,
		Location: domain.LocationZoom,
		IsActive: true,
		Config:   domain.EventTypeConfig{DurationMinutes: 30, MaxBookingsPerDay: maxPerDay, HostTimezone: "UTC"},
	})
	require.NoError(t, err)

	err = store.TxManager().Do(ctx, func(ctx context.Context) error {
		_, err := store.Rules().ReplaceWeeklyDay(ctx, 7, time.Monday, []domain.LocalInterval{{
			Start: types.MustTimeOfDay("09:00"),
			End:   types.MustTimeOfDay("12:00"),
		}})
		return err
	})
	require.NoError(t, err)

	f := &fixture{
		store:     store,
		et:        et,
		clock:     &fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		publisher: &recordingPublisher{},
	}
	f.uc = NewUseCase(store.Bookings(), store.EventTypes(), store.Rules(), store.TxManager(),
		slots.Nop{}, f.publisher, nopMetrics{}, logger.Nop())
	f.uc.timeProvider = f.clock
	return f
}

func (f *fixture) book(t *testing.T, start time.Time) *domain.Booking {
	t.Helper()
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		HostID:      7,
		EventTypeID: f.et.ID,
		BookingDate: types.DateOf(start),
		StartAt:     start,
		EndAt:       start.Add(30 * time.Minute),
		Status:      domain.StatusConfirmed,
		Invitee:     domain.Invitee{Name: "Ann", Email: "ann@example.com"},
	})
	require.NoError(t, err)
	return b
}

func move(id uuid.UUID, start time.Time) *Request {
	return &Request{BookingID: id, StartAt: start, EndAt: start.Add(30 * time.Minute)}
}

func TestExecute_MovesBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := f.book(t, monday9)

	resp, err := f.uc.Execute(ctx, move(old.ID, monday9.Add(time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, old.ID, resp.PreviousID)
	require.NotNil(t, resp.Booking.RescheduledFromID)
	assert.Equal(t, old.ID, *resp.Booking.RescheduledFromID)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, old.Invitee, resp.Booking.Invitee)

	prev, err := f.store.Bookings().GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRescheduled, prev.Status)
	assert.Equal(t, []domain.BookingEventType{domain.EventBookingRescheduled}, f.publisher.events)

	// перенесенное бронирование терминально
	_, err = f.uc.Execute(ctx, move(old.ID, monday9.Add(2*time.Hour)))
	assert.ErrorIs(t, err, domain.ErrBookingNotConfirmed)
}

func TestExecute_OldBookingExcludedFromCapAndConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := f.book(t, monday9)
	f.book(t, monday9.Add(2*time.Hour))

	// лимит дня 2 уже исчерпан, но переносимое бронирование не считается
	resp, err := f.uc.Execute(ctx, move(old.ID, monday9.Add(30*time.Minute)))
	require.NoError(t, err)
	assert.True(t, resp.Booking.StartAt.Equal(monday9.Add(30*time.Minute)))
}

func TestExecute_SameSlotAllowed(t *testing.T) {
	f := newFixture(t)
	old := f.book(t, monday9)

	_, err := f.uc.Execute(context.Background(), move(old.ID, monday9))
	assert.NoError(t, err)
}

func TestExecute_FailureLeavesOldUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := f.book(t, monday9)
	f.book(t, monday9.Add(time.Hour))

	_, err := f.uc.Execute(ctx, move(old.ID, monday9.Add(time.Hour)))
	require.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)

	prev, err := f.store.Bookings().GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, prev.Status)

	all, err := f.store.Bookings().GetByHostWithFilter(ctx, domain.HostBookingsFilter{HostID: 7})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := f.book(t, monday9)

	cancelled := f.book(t, monday9.Add(time.Hour))
	require.NoError(t, f.store.TxManager().Do(ctx, func(ctx context.Context) error {
		return f.store.Bookings().Cancel(ctx, cancelled.ID, nil, f.clock.now)
	}))

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"unknown booking", move(uuid.New(), monday9.Add(time.Hour)), domain.ErrNotFound},
		{"cancelled booking", move(cancelled.ID, monday9.Add(90*time.Minute)), domain.ErrBookingNotConfirmed},
		{"wrong length", &Request{BookingID: old.ID, StartAt: monday9, EndAt: monday9.Add(time.Hour)}, domain.ErrInvalidRange},
		{"past slot", move(old.ID, f.clock.now.Add(-time.Hour)), domain.ErrPastSlot},
		{"missing id", move(uuid.Nil, monday9), ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_ConcurrentReschedulesSingleWinner(t *testing.T) {
	f := newFixture(t)
	old := f.book(t, monday9)

	targets := []time.Time{monday9.Add(time.Hour), monday9.Add(90 * time.Minute), monday9.Add(2 * time.Hour)}
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, start := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), move(old.ID, start))
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			if !errors.Is(err, domain.ErrBookingNotConfirmed) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	confirmed := domain.StatusConfirmed
	active, err := f.store.Bookings().GetByHostWithFilter(context.Background(), domain.HostBookingsFilter{HostID: 7, Status: &confirmed})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestExecute_DayCapTodayAfterStartedSlots(t *testing.T) {
	f := newFixtureWithCap(t, 1)
	ctx := context.Background()
	f.clock.now = monday9.Add(40 * time.Minute)
	old := f.book(t, monday9.Add(150*time.Minute))

	// выдача для переноса: старое бронирование не учитывается, начавшиеся слоты отброшены
	in, err := slotgen.LoadInput(ctx, f.store.Rules(), f.store.Bookings(), f.et,
		domain.DateRange{Start: types.MustDate("2024-06-03"), End: types.MustDate("2024-06-03")}, &old.ID)
	require.NoError(t, err)
	in.NotBefore = f.clock.now
	seq, err := slotgen.Generate(in)
	require.NoError(t, err)
	offered := slotgen.Collect(seq)
	require.Len(t, offered, 1)
	assert.True(t, offered[0].Start.Equal(monday9.Add(time.Hour)))

	resp, err := f.uc.Execute(ctx, move(old.ID, offered[0].Start))
	require.NoError(t, err)
	assert.True(t, resp.Booking.StartAt.Equal(offered[0].Start))
	assert.Equal(t, old.ID, resp.PreviousID)
}
