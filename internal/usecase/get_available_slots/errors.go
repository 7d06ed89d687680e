package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrEventTypeNotFound возвращается, когда тип события не найден у хоста
	ErrEventTypeNotFound = fmt.Errorf("get_available_slots: event type %w", domain.ErrNotFound)

	// ErrEventTypeInactive возвращается для отключенного типа события
	ErrEventTypeInactive = fmt.Errorf("get_available_slots: %w", domain.ErrEventTypeInactive)

	// ErrInvalidInput возвращается при некорректном периоде или часовом поясе
	ErrInvalidInput = fmt.Errorf("get_available_slots: %w", domain.ErrInvalidRange)

	// ErrRangeTooLong возвращается, когда период длиннее допустимого
	ErrRangeTooLong = fmt.Errorf("get_available_slots: range is too long: %w", domain.ErrInvalidRange)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
