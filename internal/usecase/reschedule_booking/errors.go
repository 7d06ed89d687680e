package reschedule_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("reschedule_booking: booking %w", domain.ErrNotFound)

	// ErrBookingNotConfirmed возвращается для отмененного или уже перенесенного бронирования
	ErrBookingNotConfirmed = fmt.Errorf("reschedule_booking: %w", domain.ErrBookingNotConfirmed)

	// ErrEventTypeNotFound возвращается, когда тип события бронирования удален
	ErrEventTypeNotFound = fmt.Errorf("reschedule_booking: event type %w", domain.ErrNotFound)

	// ErrEventTypeInactive возвращается для отключенного типа события
	ErrEventTypeInactive = fmt.Errorf("reschedule_booking: %w", domain.ErrEventTypeInactive)

	// ErrInvalidSlot возвращается, когда длина слота не равна длительности встречи
	ErrInvalidSlot = fmt.Errorf("reschedule_booking: %w", domain.ErrInvalidRange)

	// ErrPastSlot возвращается, когда новый слот уже начался
	ErrPastSlot = fmt.Errorf("reschedule_booking: %w", domain.ErrPastSlot)

	// ErrSlotNotAvailable возвращается, когда новый слот недоступен
	ErrSlotNotAvailable = fmt.Errorf("reschedule_booking: %w", domain.ErrSlotNoLongerAvailable)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
