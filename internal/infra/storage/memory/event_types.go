package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	eventTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/eventtype"
)

// EventTypeRepository типы событий в памяти
type EventTypeRepository struct {
	s *Store
}

// Create сохраняет тип события и присваивает ему ID
func (r *EventTypeRepository) Create(ctx context.Context, et *domain.EventType) (*domain.EventType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextEventTypeID++
	et.ID = r.s.nextEventTypeID
	now := time.Now().UTC()
	et.CreatedAt = now
	et.UpdatedAt = now

	id := et.ID
	r.s.pendingEventTypes.touch(ctx, id, nil, false)
	r.s.eventTypes[id] = cloneEventType(et)
	record(ctx, func() { delete(r.s.eventTypes, id) })

	return et, nil
}

// GetByID получает тип события по ID
func (r *EventTypeRepository) GetByID(ctx context.Context, id int64) (*domain.EventType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	et, ok := r.s.eventTypes[id]
	et, ok = r.s.pendingEventTypes.view(ctx, id, et, ok)
	if !ok {
		return nil, eventTypeRepo.ErrEventTypeNotFound
	}
	return cloneEventType(et), nil
}

// ListByHost возвращает типы событий хоста по возрастанию ID
func (r *EventTypeRepository) ListByHost(ctx context.Context, hostID int64, onlyActive bool) ([]*domain.EventType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.EventType, 0)
	for id, et := range r.s.eventTypes {
		et, ok := r.s.pendingEventTypes.view(ctx, id, et, true)
		if !ok || et.HostID != hostID || (onlyActive && !et.IsActive) {
			continue
		}
		result = append(result, cloneEventType(et))
	}
	slices.SortFunc(result, func(a, b *domain.EventType) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}

// Update сохраняет изменяемые поля типа события
func (r *EventTypeRepository) Update(ctx context.Context, et *domain.EventType) (*domain.EventType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.eventTypes[et.ID]
	if !ok {
		return nil, eventTypeRepo.ErrEventTypeNotFound
	}

	r.s.pendingEventTypes.touch(ctx, et.ID, prev, true)
	next := cloneEventType(et)
	next.HostID = prev.HostID
	next.CreatedAt = prev.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	r.s.eventTypes[et.ID] = next
	record(ctx, func() { r.s.eventTypes[prev.ID] = prev })

	et.UpdatedAt = next.UpdatedAt
	return et, nil
}
