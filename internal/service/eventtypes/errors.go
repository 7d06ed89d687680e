package eventtypes

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrEventTypeNotFound возвращается, когда тип события не найден
	ErrEventTypeNotFound = fmt.Errorf("eventtypes.service: event type %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда тип события принадлежит другому хосту
	ErrAccessDenied = errors.New("eventtypes.service: access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("eventtypes.service: internal error")
)
