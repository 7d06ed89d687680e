package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay количество минут в сутках, "24:00" допустимо только как конец интервала
const MinutesPerDay = 24 * 60

var (
	// ErrInvalidTimeOfDay возвращается при некорректном формате времени
	ErrInvalidTimeOfDay = errors.New("invalid time of day format")

	// ErrTimeOfDayOutOfRange возвращается, когда время выходит за пределы суток
	ErrTimeOfDayOutOfRange = errors.New("time of day out of range")
)

// TimeOfDay локальное время суток в минутах от полуночи (00:00..24:00).
// Не привязано ни к дате, ни к часовому поясу.
type TimeOfDay int

// NewTimeOfDay создает время суток из часов и минут
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrTimeOfDayOutOfRange, hour, minute)
	}
	t := TimeOfDay(hour*60 + minute)
	if err := t.Validate(); err != nil {
		return 0, err
	}
	return t, nil
}

// MustTimeOfDay как ParseTimeOfDay, но паникует при ошибке. Для тестов и констант.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay парсит строку формата "HH:MM" (также принимает "HH:MM:SS" с нулевыми секундами)
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	if len(parts) == 3 && parts[2] != "00" {
		return 0, fmt.Errorf("%w: seconds are not supported: %q", ErrInvalidTimeOfDay, s)
	}
	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	return NewTimeOfDay(hour, minute)
}

// Validate проверяет, что время лежит в диапазоне 00:00..24:00
func (t TimeOfDay) Validate() error {
	if t < 0 || t > MinutesPerDay {
		return fmt.Errorf("%w: %d minutes", ErrTimeOfDayOutOfRange, int(t))
	}
	return nil
}

// Hour возвращает час (24 для конца суток)
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute возвращает минуты часа
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// Minutes возвращает количество минут от полуночи
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// AddMinutes возвращает время, сдвинутое на n минут, в пределах одних суток
func (t TimeOfDay) AddMinutes(n int) (TimeOfDay, error) {
	res := t + TimeOfDay(n)
	if err := res.Validate(); err != nil {
		return 0, err
	}
	return res, nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeOfDay) IsBefore(other TimeOfDay) bool {
	return t < other
}

// IsAfter возвращает true, если t строго позже other
func (t TimeOfDay) IsAfter(other TimeOfDay) bool {
	return t > other
}

// String форматирует время как "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON сериализует время как строку "HH:MM"
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON парсит строку "HH:MM"
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeOfDay, err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value хранит время в БД как количество минут (SMALLINT)
func (t TimeOfDay) Value() (driver.Value, error) {
	return int64(t), nil
}

// Scan читает время из БД (минуты или строка "HH:MM")
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*t = TimeOfDay(v)
		return t.Validate()
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeOfDay, src)
	}
}
