package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

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

type recordingMetrics struct {
	results []string
}

func (m *recordingMetrics) ObserveLedger(operation, result string) {
	m.results = append(m.results, operation+":"+result)
}

type fixture struct {
	store     *memory.Store
	svc       *Service
	publisher *recordingPublisher
	metrics   *recordingMetrics
}

func newFixture() *fixture {
	store := memory.NewStore()
	f := &fixture{store: store, publisher: &recordingPublisher{}, metrics: &recordingMetrics{}}
	f.svc = NewService(
		store.Bookings(),
		store.TxManager(),
		slots.Nop{},
		f.publisher,
		f.metrics,
		fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		logger.Nop(),
	)
	return f
}

func (f *fixture) book(t *testing.T, hostID int64, start time.Time, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		HostID:      hostID,
		EventTypeID: 1,
		BookingDate: types.DateOf(start),
		StartAt:     start,
		EndAt:       start.Add(30 * time.Minute),
		Status:      status,
		Invitee:     domain.Invitee{Name: "Ann", Email: "ann@example.com"},
	})
	require.NoError(t, err)
	return b
}

func TestCancel_ConfirmedThenIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, 7, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), domain.StatusConfirmed)

	resp, err := f.svc.Cancel(ctx, b.ID, &models.CancelBookingRequest{CancellationReason: ptr.Ptr("sick")})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "sick", *resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)

	again, err := f.svc.Cancel(ctx, b.ID, &models.CancelBookingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", again.Status)
	assert.Equal(t, "sick", *again.CancellationReason)

	assert.Equal(t, []domain.BookingEventType{domain.EventBookingCancelled}, f.publisher.events)
	assert.Equal(t, []string{"cancel:ok", "cancel:noop"}, f.metrics.results)
}

func TestCancel_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	moved := f.book(t, 7, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), domain.StatusRescheduled)

	_, err := f.svc.Cancel(ctx, moved.ID, &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, domain.ErrBookingNotConfirmed)

	_, err = f.svc.Cancel(ctx, uuid.New(), &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	long := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.svc.Cancel(ctx, moved.ID, &models.CancelBookingRequest{CancellationReason: ptr.Ptr(string(long))})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	assert.Empty(t, f.publisher.events)
}

func TestCancel_ConcurrentCallsPublishOnce(t *testing.T) {
	f := newFixture()
	b := f.book(t, 7, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), domain.StatusConfirmed)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.publisher.events, 1)
}

func TestGetByID(t *testing.T) {
	f := newFixture()
	b := f.book(t, 7, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), domain.StatusConfirmed)

	resp, err := f.svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID.String(), resp.ID)
	assert.Equal(t, "2024-06-03", resp.BookingDate)

	_, err = f.svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetHostBookings_Filter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.book(t, 7, time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC), domain.StatusConfirmed)
	f.book(t, 7, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), domain.StatusConfirmed)
	f.book(t, 7, time.Date(2024, 6, 3, 11, 0, 0, 0, time.UTC), domain.StatusCancelled)
	f.book(t, 7, time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC), domain.StatusConfirmed)
	f.book(t, 8, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), domain.StatusConfirmed)

	resp, err := f.svc.GetHostBookings(ctx, &models.GetHostBookingsRequest{
		HostID:    7,
		StartDate: ptr.Ptr("2024-06-01"),
		EndDate:   ptr.Ptr("2024-06-10"),
		Status:    ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "2024-06-03", resp.Bookings[0].BookingDate)
	assert.Equal(t, "2024-06-04", resp.Bookings[1].BookingDate)

	all, err := f.svc.GetHostBookings(ctx, &models.GetHostBookingsRequest{HostID: 7})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)
}

func TestGetHostBookings_InvalidFilter(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name string
		req  models.GetHostBookingsRequest
	}{
		{"bad start", models.GetHostBookingsRequest{HostID: 7, StartDate: ptr.Ptr("june")}},
		{"start after end", models.GetHostBookingsRequest{HostID: 7, StartDate: ptr.Ptr("2024-06-10"), EndDate: ptr.Ptr("2024-06-01")}},
		{"unknown status", models.GetHostBookingsRequest{HostID: 7, Status: ptr.Ptr("pending")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.GetHostBookings(context.Background(), &tt.req)
			assert.ErrorIs(t, err, domain.ErrInvalidRange)
		})
	}
}
