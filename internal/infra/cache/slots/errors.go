package slots

import "errors"

var (
	// ErrCache возвращается при ошибках обращения к Redis
	ErrCache = errors.New("slots.cache: redis error")

	// ErrDecode возвращается, если запись кэша повреждена
	ErrDecode = errors.New("slots.cache: failed to decode entry")
)
