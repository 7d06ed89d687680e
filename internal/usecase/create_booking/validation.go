package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.HostID < 0 {
		return fmt.Errorf("%w: hostID must not be negative", ErrInvalidInput)
	}
	if req.EventTypeID <= 0 {
		return fmt.Errorf("%w: eventTypeID must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return fmt.Errorf("%w: slot start and end are required", ErrInvalidInput)
	}
	if err := validateInvitee(req.Invitee); err != nil {
		return err
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// validateInvitee проверяет имя и email приглашенного
func validateInvitee(inv domain.Invitee) error {
	name := strings.TrimSpace(inv.Name)
	if name == "" || len(name) > domain.MaxInviteeNameLength {
		return fmt.Errorf("%w: invitee name must be 1..%d characters", ErrInvalidInput, domain.MaxInviteeNameLength)
	}
	addr, err := mail.ParseAddress(inv.Email)
	if err != nil || addr.Address != inv.Email {
		return fmt.Errorf("%w: invalid invitee email %q", ErrInvalidInput, inv.Email)
	}
	return nil
}

// validateSlot проверяет длину слота и что он еще не начался
func validateSlot(cfg domain.EventTypeConfig, slot domain.Slot, now time.Time) error {
	if slot.Duration() != cfg.Duration() {
		return fmt.Errorf("%w: slot length %s does not match event duration %s", ErrInvalidSlot, slot.Duration(), cfg.Duration())
	}
	if !slot.Start.After(now) {
		return fmt.Errorf("%w: slot starts at %s", ErrPastSlot, slot.Start.UTC().Format(time.RFC3339))
	}
	return nil
}
