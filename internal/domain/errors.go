package domain

import "errors"

// Ошибки движка. Слои оборачивают их через fmt.Errorf("%w: ..."),
// проверка через errors.Is.
var (
	// ErrInvalidRange возвращается при некорректном периоде или интервале (start >= end,
	// неверный день недели, длина слота не равна длительности встречи)
	ErrInvalidRange = errors.New("invalid range")

	// ErrOverlappingInterval возвращается, когда интервалы одного исключения пересекаются
	ErrOverlappingInterval = errors.New("overlapping interval")

	// ErrSlotNoLongerAvailable возвращается, когда слот уже занят, больше не генерируется
	// или исчерпан дневной лимит
	ErrSlotNoLongerAvailable = errors.New("slot no longer available")

	// ErrPastSlot возвращается, когда слот начался по часам сервера
	ErrPastSlot = errors.New("slot is in the past")

	// ErrNotFound возвращается для неизвестного бронирования или типа события
	ErrNotFound = errors.New("not found")

	// ErrBookingNotConfirmed возвращается при отмене или переносе завершенного бронирования
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")

	// ErrEventTypeInactive возвращается для выключенного типа события
	ErrEventTypeInactive = errors.New("event type is inactive")
)
