package eventtypes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/internal/service/eventtypes/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

func validCreate() *models.CreateEventTypeRequest {
	return &models.CreateEventTypeRequest{
		Title:             "Intro call",
		Kind:              "one-on-one",
		DurationMinutes:   30,
		MaxBookingsPerDay: 8,
		Timezone:          "Europe/Moscow",
		Location:          "zoom",
	}
}

func newTestService() *Service {
	return NewService(memory.NewStore().EventTypes(), slots.Nop{}, logger.Nop())
}

func TestCreate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(7), created.HostID)
	assert.True(t, created.IsActive)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name   string
		mutate func(r *models.CreateEventTypeRequest)
	}{
		{"zero duration", func(r *models.CreateEventTypeRequest) { r.DurationMinutes = 0 }},
		{"negative buffer", func(r *models.CreateEventTypeRequest) { r.BufferAfterMinutes = -5 }},
		{"zero cap", func(r *models.CreateEventTypeRequest) { r.MaxBookingsPerDay = 0 }},
		{"unknown timezone", func(r *models.CreateEventTypeRequest) { r.Timezone = "Mars/Olympus" }},
		{"empty title", func(r *models.CreateEventTypeRequest) { r.Title = "" }},
		{"unknown kind", func(r *models.CreateEventTypeRequest) { r.Kind = "webinar" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(req)
			_, err := svc.Create(context.Background(), 7, req)
			assert.ErrorIs(t, err, domain.ErrInvalidRange)
		})
	}
}

func TestUpdate_Partial(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 7, created.ID, &models.UpdateEventTypeRequest{
		DurationMinutes: ptr.Ptr(45),
		IsActive:        ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.DurationMinutes)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Intro call", updated.Title)
	assert.Equal(t, "Europe/Moscow", updated.Timezone)

	active, err := svc.ListByHost(ctx, 7, true)
	require.NoError(t, err)
	assert.Zero(t, active.Total)

	all, err := svc.ListByHost(ctx, 7, false)
	require.NoError(t, err)
	assert.Equal(t, 1, all.Total)
}

func TestUpdate_Errors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)

	_, err = svc.Update(ctx, 8, created.ID, &models.UpdateEventTypeRequest{Title: ptr.Ptr("x")})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Update(ctx, 7, 999, &models.UpdateEventTypeRequest{Title: ptr.Ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, 7, created.ID, &models.UpdateEventTypeRequest{Timezone: ptr.Ptr("Nowhere/City")})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", got.Timezone)
}
