package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID == uuid.Nil {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return fmt.Errorf("%w: slot start and end are required", ErrInvalidInput)
	}
	return nil
}

// validateSlot проверяет длину нового слота и что он еще не начался
func validateSlot(cfg domain.EventTypeConfig, slot domain.Slot, now time.Time) error {
	if slot.Duration() != cfg.Duration() {
		return fmt.Errorf("%w: slot length %s does not match event duration %s", ErrInvalidSlot, slot.Duration(), cfg.Duration())
	}
	if !slot.Start.After(now) {
		return fmt.Errorf("%w: slot starts at %s", ErrPastSlot, slot.Start.UTC().Format(time.RFC3339))
	}
	return nil
}
