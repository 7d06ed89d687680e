package rules

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных (формат времени, даты, зоны)
	ErrInvalidInput = fmt.Errorf("rules.service: %w", domain.ErrInvalidRange)

	// ErrOverrideNotFound возвращается, если исключения на дату нет
	ErrOverrideNotFound = fmt.Errorf("rules.service: override %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rules.service: internal error")
)
