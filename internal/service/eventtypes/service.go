package eventtypes

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/eventtypes/models"
)

// Service сервис для работы с типами событий
type Service struct {
	repo   EventTypeRepository
	cache  SlotCache
	logger Logger
}

// NewService создает новый экземпляр сервиса типов событий
func NewService(repo EventTypeRepository, cache SlotCache, logger Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Create создает тип события хоста
func (s *Service) Create(ctx context.Context, hostID int64, req *models.CreateEventTypeRequest) (*models.EventTypeResponse, error) {
	s.logger.Info("Create: creating event type for host=%d, title=%q, duration=%d", hostID, req.Title, req.DurationMinutes)

	et := req.ToDomain(hostID)
	if err := et.Validate(); err != nil {
		s.logger.Warn("Create: validation failed for host=%d: %v", hostID, err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, et)
	if err != nil {
		s.logger.Error("Create: repository error for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created event type id=%d for host=%d", created.ID, hostID)
	return models.FromDomainEventType(created), nil
}

// GetByID получает тип события по ID
// Публичный метод - доступен всем
func (s *Service) GetByID(ctx context.Context, id int64) (*models.EventTypeResponse, error) {
	et, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainEventType(et), nil
}

// ListByHost возвращает типы событий хоста
func (s *Service) ListByHost(ctx context.Context, hostID int64, onlyActive bool) (*models.EventTypeListResponse, error) {
	list, err := s.repo.ListByHost(ctx, hostID, onlyActive)
	if err != nil {
		s.logger.Error("ListByHost: repository error for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: ListByHost - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByHost: fetched %d event types for host=%d", len(list), hostID)
	return models.FromDomainEventTypeList(list), nil
}

// Update частично обновляет тип события
// Доступно только хосту-владельцу
func (s *Service) Update(ctx context.Context, hostID, id int64, req *models.UpdateEventTypeRequest) (*models.EventTypeResponse, error) {
	s.logger.Info("Update: updating event type id=%d by host=%d", id, hostID)

	et, err := s.get(ctx, "Update", id)
	if err != nil {
		return nil, err
	}
	if et.HostID != hostID {
		s.logger.Warn("Update: host=%d is not the owner of event type id=%d", hostID, id)
		return nil, ErrAccessDenied
	}
	if req.IsEmpty() {
		return models.FromDomainEventType(et), nil
	}

	req.Apply(et)
	if err := et.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for event type id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.repo.Update(ctx, et)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEventTypeNotFound
		}
		s.logger.Error("Update: repository error for event type id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// Длительность, буферы и лимит меняют слоты хоста
	if err := s.cache.Invalidate(ctx, hostID); err != nil {
		s.logger.Warn("Update: failed to invalidate slot cache for host=%d: %v", hostID, err)
	}

	s.logger.Info("Update: successfully updated event type id=%d", id)
	return models.FromDomainEventType(updated), nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.EventType, error) {
	et, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("%s: event type id=%d not found", op, id)
			return nil, ErrEventTypeNotFound
		}
		s.logger.Error("%s: repository error for event type id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return et, nil
}
