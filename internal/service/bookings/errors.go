package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("bookings.service: booking %w", domain.ErrNotFound)

	// ErrCannotCancel возвращается при отмене перенесенного бронирования
	ErrCannotCancel = fmt.Errorf("bookings.service: %w", domain.ErrBookingNotConfirmed)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("bookings.service: %w", domain.ErrInvalidRange)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)
