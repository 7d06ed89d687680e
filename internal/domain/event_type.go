package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// EventKind формат встречи
type EventKind string

const (
	KindOneOnOne EventKind = "one-on-one"
	KindGroup    EventKind = "group"
)

// LocationType место проведения встречи
type LocationType string

const (
	LocationGoogleMeet LocationType = "google_meet"
	LocationZoom       LocationType = "zoom"
	LocationPhone      LocationType = "phone"
	LocationPhysical   LocationType = "physical"
)

// EventTypeConfig параметры генерации слотов типа события
type EventTypeConfig struct {
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	MaxBookingsPerDay   int
	HostTimezone        string
}

// Duration возвращает длительность встречи
func (c EventTypeConfig) Duration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}

// BufferBefore возвращает буфер перед встречей
func (c EventTypeConfig) BufferBefore() time.Duration {
	return time.Duration(c.BufferBeforeMinutes) * time.Minute
}

// BufferAfter возвращает буфер после встречи
func (c EventTypeConfig) BufferAfter() time.Duration {
	return time.Duration(c.BufferAfterMinutes) * time.Minute
}

// Location загружает часовой пояс хоста
func (c EventTypeConfig) Location() (*time.Location, error) {
	loc, err := types.LoadLocation(c.HostTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: host timezone: %v", ErrInvalidRange, err)
	}
	return loc, nil
}

// Validate проверяет длительность > 0, буферы >= 0, лимит > 0 и часовой пояс IANA
func (c EventTypeConfig) Validate() error {
	if c.DurationMinutes < MinDurationMinutes || c.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d", ErrInvalidRange, MinDurationMinutes, MaxDurationMinutes)
	}
	if c.BufferBeforeMinutes < 0 || c.BufferBeforeMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: bufferBeforeMinutes must be between 0 and %d", ErrInvalidRange, MaxBufferMinutes)
	}
	if c.BufferAfterMinutes < 0 || c.BufferAfterMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: bufferAfterMinutes must be between 0 and %d", ErrInvalidRange, MaxBufferMinutes)
	}
	if c.MaxBookingsPerDay < 1 || c.MaxBookingsPerDay > MaxBookingsPerDayLimit {
		return fmt.Errorf("%w: maxBookingsPerDay must be between 1 and %d", ErrInvalidRange, MaxBookingsPerDayLimit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// EventType шаблон встречи хоста, доступный для бронирования
type EventType struct {
	ID            int64
	HostID        int64
	Title         string
	Kind          EventKind
	Config        EventTypeConfig
	Location      LocationType
	LocationValue *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate проверяет описание и конфигурацию слотов
func (e *EventType) Validate() error {
	if e.HostID <= 0 {
		return fmt.Errorf("%w: hostId must be positive", ErrInvalidRange)
	}
	if e.Title == "" || len(e.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be 1..%d characters", ErrInvalidRange, MaxTitleLength)
	}
	if e.Kind != KindOneOnOne && e.Kind != KindGroup {
		return fmt.Errorf("%w: unknown event kind %q", ErrInvalidRange, e.Kind)
	}
	switch e.Location {
	case LocationGoogleMeet, LocationZoom, LocationPhone, LocationPhysical:
	default:
		return fmt.Errorf("%w: unknown location %q", ErrInvalidRange, e.Location)
	}
	return e.Config.Validate()
}
