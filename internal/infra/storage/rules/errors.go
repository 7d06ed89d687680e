package rules

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrOverrideNotFound возвращается, когда на дату нет исключения
	ErrOverrideNotFound = fmt.Errorf("rules.repository: date override %w", domain.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rules.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rules.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rules.repository: failed to scan row")

	// ErrEncodeIntervals возвращается при ошибке (де)сериализации интервалов исключения
	ErrEncodeIntervals = errors.New("rules.repository: failed to encode intervals")
)
