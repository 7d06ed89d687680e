package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrEventTypeNotFound возвращается, когда тип события не найден
	ErrEventTypeNotFound = fmt.Errorf("create_booking: event type %w", domain.ErrNotFound)

	// ErrEventTypeInactive возвращается для отключенного типа события
	ErrEventTypeInactive = fmt.Errorf("create_booking: %w", domain.ErrEventTypeInactive)

	// ErrInvalidSlot возвращается, когда длина слота не равна длительности встречи
	ErrInvalidSlot = fmt.Errorf("create_booking: %w", domain.ErrInvalidRange)

	// ErrPastSlot возвращается, когда слот уже начался
	ErrPastSlot = fmt.Errorf("create_booking: %w", domain.ErrPastSlot)

	// ErrSlotNotAvailable возвращается, когда слот занят, не генерируется или исчерпан лимит дня
	ErrSlotNotAvailable = fmt.Errorf("create_booking: %w", domain.ErrSlotNoLongerAvailable)

	// ErrInvalidInput возвращается при некорректных контактах или заметках
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
