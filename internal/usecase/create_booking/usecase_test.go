package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	slotgen "github.com/m04kA/SMC-SchedulingService/internal/slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEventType
	err    error
}

func (p *recordingPublisher) PublishBooking(_ context.Context, eventType domain.BookingEventType, _ *domain.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return p.err
}

type nopMetrics struct{}

func (nopMetrics) ObserveLedger(string, string) {}

type fixture struct {
	store     *memory.Store
	et        *domain.EventType
	clock     *fixedClock
	publisher *recordingPublisher
	uc        *UseCase
}

var monday9 = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

// Понедельник 09:00-12:00 UTC, встречи по 30 минут
func newFixture(t *testing.T, cfg domain.EventTypeConfig) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	et, err := store.EventTypes().Create(ctx, &domain.EventType{
		HostID:   7,
		Title:    "Intro",
		Kind:     domain.KindOneOnOne,
		Location: domain.LocationZoom,
		IsActive: true,
		Config:   cfg,
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

func defaultConfig() domain.EventTypeConfig {
	return domain.EventTypeConfig{DurationMinutes: 30, MaxBookingsPerDay: 10, HostTimezone: "UTC"}
}

func (f *fixture) request(start time.Time) *Request {
	return &Request{
		HostID:      7,
		EventTypeID: f.et.ID,
		StartAt:     start,
		EndAt:       start.Add(30 * time.Minute),
		Invitee:     domain.Invitee{Name: "Ann", Email: "ann@example.com"},
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, defaultConfig())

	resp, err := f.uc.Execute(context.Background(), f.request(monday9))
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, types.MustDate("2024-06-03"), b.BookingDate)
	assert.True(t, b.StartAt.Equal(monday9))
	assert.Equal(t, []domain.BookingEventType{domain.EventBookingConfirmed}, f.publisher.events)

	// повторное бронирование того же слота
	_, err = f.uc.Execute(context.Background(), f.request(monday9))
	assert.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)
}

func TestExecute_ConcurrentReserveExactlyOneWins(t *testing.T) {
	f := newFixture(t, defaultConfig())

	const callers = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), f.request(monday9))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domain.ErrSlotNoLongerAvailable):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(callers-1), conflicts.Load())

	all, err := f.store.Bookings().GetByHostWithFilter(context.Background(), domain.HostBookingsFilter{HostID: 7})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestExecute_DayCap(t *testing.T) {
	cfg := defaultConfig()
	cfg.MaxBookingsPerDay = 2
	f := newFixture(t, cfg)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request(monday9))
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, f.request(monday9.Add(time.Hour)))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request(monday9.Add(2*time.Hour)))
	assert.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)
}

// offered возвращает слоты дня так же, как их отдает выдача: начавшиеся отброшены до лимита
func (f *fixture) offered(t *testing.T, date types.Date) []domain.Slot {
	t.Helper()
	in, err := slotgen.LoadInput(context.Background(), f.store.Rules(), f.store.Bookings(), f.et,
		domain.DateRange{Start: date, End: date}, nil)
	require.NoError(t, err)
	in.NotBefore = f.clock.now

	seq, err := slotgen.Generate(in)
	require.NoError(t, err)
	return slotgen.Collect(seq)
}

func TestExecute_DayCapTodayAfterStartedSlots(t *testing.T) {
	cfg := defaultConfig()
	cfg.MaxBookingsPerDay = 1
	f := newFixture(t, cfg)
	f.clock.now = monday9.Add(40 * time.Minute)

	offered := f.offered(t, types.MustDate("2024-06-03"))
	require.Len(t, offered, 1)
	assert.True(t, offered[0].Start.Equal(monday9.Add(time.Hour)))

	resp, err := f.uc.Execute(context.Background(), f.request(offered[0].Start))
	require.NoError(t, err)
	assert.True(t, resp.Booking.StartAt.Equal(offered[0].Start))

	// лимит исчерпан
	assert.Empty(t, f.offered(t, types.MustDate("2024-06-03")))
	_, err = f.uc.Execute(context.Background(), f.request(monday9.Add(90*time.Minute)))
	assert.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)
}

func TestExecute_BuffersBlockNeighbours(t *testing.T) {
	cfg := defaultConfig()
	cfg.BufferAfterMinutes = 15
	f := newFixture(t, cfg)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request(monday9))
	require.NoError(t, err)

	// 09:30 попадает в буфер после встречи 09:00-09:30
	_, err = f.uc.Execute(ctx, f.request(monday9.Add(30*time.Minute)))
	assert.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	past := f.request(monday9)
	f.clock.now = monday9

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"slot already started", past, domain.ErrPastSlot},
		{"wrong length", &Request{
			HostID: 7, EventTypeID: f.et.ID,
			StartAt: monday9.Add(time.Hour), EndAt: monday9.Add(2 * time.Hour),
			Invitee: domain.Invitee{Name: "Ann", Email: "ann@example.com"},
		}, domain.ErrInvalidRange},
		{"bad email", &Request{
			HostID: 7, EventTypeID: f.et.ID,
			StartAt: monday9.Add(time.Hour), EndAt: monday9.Add(90 * time.Minute),
			Invitee: domain.Invitee{Name: "Ann", Email: "not-an-email"},
		}, ErrInvalidInput},
		{"empty name", &Request{
			HostID: 7, EventTypeID: f.et.ID,
			StartAt: monday9.Add(time.Hour), EndAt: monday9.Add(90 * time.Minute),
			Invitee: domain.Invitee{Name: "  ", Email: "ann@example.com"},
		}, ErrInvalidInput},
		{"unknown event type", &Request{
			HostID: 7, EventTypeID: 404,
			StartAt: monday9.Add(time.Hour), EndAt: monday9.Add(90 * time.Minute),
			Invitee: domain.Invitee{Name: "Ann", Email: "ann@example.com"},
		}, domain.ErrNotFound},
		{"other host", &Request{
			HostID: 8, EventTypeID: f.et.ID,
			StartAt: monday9.Add(time.Hour), EndAt: monday9.Add(90 * time.Minute),
			Invitee: domain.Invitee{Name: "Ann", Email: "ann@example.com"},
		}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.publisher.events)
}

func TestExecute_OffGridAndClosedSlots(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	// не на сетке шагов от начала окна
	_, err := f.uc.Execute(ctx, f.request(monday9.Add(10*time.Minute)))
	assert.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)

	// вторник без правил
	_, err = f.uc.Execute(ctx, f.request(monday9.AddDate(0, 0, 1)))
	assert.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)
}

func TestExecute_InactiveEventType(t *testing.T) {
	f := newFixture(t, defaultConfig())
	f.et.IsActive = false
	_, err := f.store.EventTypes().Update(context.Background(), f.et)
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), f.request(monday9))
	assert.ErrorIs(t, err, domain.ErrEventTypeInactive)
}

type serializationTx struct{}

func (serializationTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fmt.Errorf("%w: could not serialize access", txmanager.ErrSerialization)
}

func TestExecute_SerializationFailureIsConflict(t *testing.T) {
	f := newFixture(t, defaultConfig())
	f.uc.txManager = serializationTx{}

	_, err := f.uc.Execute(context.Background(), f.request(monday9))
	assert.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t, defaultConfig())
	f.publisher.err = errors.New("kafka down")

	resp, err := f.uc.Execute(context.Background(), &Request{
		EventTypeID: f.et.ID,
		StartAt:     monday9,
		EndAt:       monday9.Add(30 * time.Minute),
		Invitee:     domain.Invitee{Name: "Ann", Email: "ann@example.com", Phone: ptr.Ptr("+70000000000")},
		Notes:       ptr.Ptr("agenda"),
	})
	require.NoError(t, err)
	assert.Equal(t, "agenda", *resp.Booking.Notes)
}
