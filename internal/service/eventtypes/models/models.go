package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// Request модели

// CreateEventTypeRequest запрос на создание типа события
type CreateEventTypeRequest struct {
	Title               string  `json:"title"`
	Kind                string  `json:"kind"` // one-on-one | group
	DurationMinutes     int     `json:"durationMinutes"`
	BufferBeforeMinutes int     `json:"bufferBeforeMinutes"`
	BufferAfterMinutes  int     `json:"bufferAfterMinutes"`
	MaxBookingsPerDay   int     `json:"maxBookingsPerDay"`
	Timezone            string  `json:"timezone"`
	Location            string  `json:"location"`
	LocationValue       *string `json:"locationValue,omitempty"`
	IsActive            *bool   `json:"isActive,omitempty"` // по умолчанию true
}

// UpdateEventTypeRequest запрос на обновление типа события
// Все поля опциональны - обновляются только переданные значения
type UpdateEventTypeRequest struct {
	Title               *string `json:"title,omitempty"`
	Kind                *string `json:"kind,omitempty"`
	DurationMinutes     *int    `json:"durationMinutes,omitempty"`
	BufferBeforeMinutes *int    `json:"bufferBeforeMinutes,omitempty"`
	BufferAfterMinutes  *int    `json:"bufferAfterMinutes,omitempty"`
	MaxBookingsPerDay   *int    `json:"maxBookingsPerDay,omitempty"`
	Timezone            *string `json:"timezone,omitempty"`
	Location            *string `json:"location,omitempty"`
	LocationValue       *string `json:"locationValue,omitempty"`
	IsActive            *bool   `json:"isActive,omitempty"`
}

// Response модели

// EventTypeResponse ответ с данными типа события
type EventTypeResponse struct {
	ID                  int64     `json:"id"`
	HostID              int64     `json:"hostId"`
	Title               string    `json:"title"`
	Kind                string    `json:"kind"`
	DurationMinutes     int       `json:"durationMinutes"`
	BufferBeforeMinutes int       `json:"bufferBeforeMinutes"`
	BufferAfterMinutes  int       `json:"bufferAfterMinutes"`
	MaxBookingsPerDay   int       `json:"maxBookingsPerDay"`
	Timezone            string    `json:"timezone"`
	Location            string    `json:"location"`
	LocationValue       *string   `json:"locationValue,omitempty"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// EventTypeListResponse ответ со списком типов событий
type EventTypeListResponse struct {
	EventTypes []EventTypeResponse `json:"eventTypes"`
	Total      int                 `json:"total"`
}

// Методы конвертации

// ToDomain конвертирует запрос в domain модель
func (r *CreateEventTypeRequest) ToDomain(hostID int64) *domain.EventType {
	return &domain.EventType{
		HostID: hostID,
		Title:  r.Title,
		Kind:   domain.EventKind(r.Kind),
		Config: domain.EventTypeConfig{
			DurationMinutes:     r.DurationMinutes,
			BufferBeforeMinutes: r.BufferBeforeMinutes,
			BufferAfterMinutes:  r.BufferAfterMinutes,
			MaxBookingsPerDay:   r.MaxBookingsPerDay,
			HostTimezone:        r.Timezone,
		},
		Location:      domain.LocationType(r.Location),
		LocationValue: r.LocationValue,
		IsActive:      ptr.Deref(r.IsActive, true),
	}
}

// Apply применяет переданные поля к типу события
func (r *UpdateEventTypeRequest) Apply(et *domain.EventType) {
	if r.Title != nil {
		et.Title = *r.Title
	}
	if r.Kind != nil {
		et.Kind = domain.EventKind(*r.Kind)
	}
	if r.DurationMinutes != nil {
		et.Config.DurationMinutes = *r.DurationMinutes
	}
	if r.BufferBeforeMinutes != nil {
		et.Config.BufferBeforeMinutes = *r.BufferBeforeMinutes
	}
	if r.BufferAfterMinutes != nil {
		et.Config.BufferAfterMinutes = *r.BufferAfterMinutes
	}
	if r.MaxBookingsPerDay != nil {
		et.Config.MaxBookingsPerDay = *r.MaxBookingsPerDay
	}
	if r.Timezone != nil {
		et.Config.HostTimezone = *r.Timezone
	}
	if r.Location != nil {
		et.Location = domain.LocationType(*r.Location)
	}
	if r.LocationValue != nil {
		et.LocationValue = r.LocationValue
	}
	if r.IsActive != nil {
		et.IsActive = *r.IsActive
	}
}

// IsEmpty проверяет, что не передано ни одного поля
func (r *UpdateEventTypeRequest) IsEmpty() bool {
	return r.Title == nil && r.Kind == nil && r.DurationMinutes == nil &&
		r.BufferBeforeMinutes == nil && r.BufferAfterMinutes == nil &&
		r.MaxBookingsPerDay == nil && r.Timezone == nil && r.Location == nil &&
		r.LocationValue == nil && r.IsActive == nil
}

// FromDomainEventType конвертирует domain модель в DTO
func FromDomainEventType(et *domain.EventType) *EventTypeResponse {
	if et == nil {
		return nil
	}

	return &EventTypeResponse{
		ID:                  et.ID,
		HostID:              et.HostID,
		Title:               et.Title,
		Kind:                string(et.Kind),
		DurationMinutes:     et.Config.DurationMinutes,
		BufferBeforeMinutes: et.Config.BufferBeforeMinutes,
		BufferAfterMinutes:  et.Config.BufferAfterMinutes,
		MaxBookingsPerDay:   et.Config.MaxBookingsPerDay,
		Timezone:            et.Config.HostTimezone,
		Location:            string(et.Location),
		LocationValue:       et.LocationValue,
		IsActive:            et.IsActive,
		CreatedAt:           et.CreatedAt,
		UpdatedAt:           et.UpdatedAt,
	}
}

// FromDomainEventTypeList конвертирует список domain моделей в DTO
func FromDomainEventTypeList(list []*domain.EventType) *EventTypeListResponse {
	resp := &EventTypeListResponse{
		EventTypes: make([]EventTypeResponse, 0, len(list)),
		Total:      len(list),
	}
	for _, et := range list {
		resp.EventTypes = append(resp.EventTypes, *FromDomainEventType(et))
	}
	return resp
}
