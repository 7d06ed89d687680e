// Package slots кэширует результаты генерации слотов в Redis.
//
// Ключ записи содержит поколение хоста. Любая мутация правил или бронирований
// увеличивает поколение (Invalidate), и старые записи больше не читаются, а доживают до TTL.
// Поколение читается до генерации, поэтому результат, посчитанный до мутации,
// записывается под старым поколением и не будет отдан.
package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Key параметры запроса слотов, от которых зависит результат (кроме зоны отображения)
type Key struct {
	HostID      int64
	EventTypeID int64
	Start       types.Date
	End         types.Date
}

type entry struct {
	Start time.Time `json:"s"`
	End   time.Time `json:"e"`
}

// Cache кэш слотов поверх go-redis
type Cache struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewCache создает кэш слотов
func NewCache(rdb redis.Cmdable, prefix string, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Cache) generationKey(hostID int64) string {
	return fmt.Sprintf("%s:gen:%d", c.prefix, hostID)
}

func (c *Cache) entryKey(gen int64, key Key) string {
	return fmt.Sprintf("%s:%d:%d:%d:%s:%s", c.prefix, key.HostID, gen, key.EventTypeID, key.Start, key.End)
}

// Generation возвращает текущее поколение хоста (0, если мутаций еще не было)
func (c *Cache) Generation(ctx context.Context, hostID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.generationKey(hostID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Generation - host=%d: %v", ErrCache, hostID, err)
	}
	return gen, nil
}

// Get возвращает слоты из кэша для поколения gen
func (c *Cache) Get(ctx context.Context, gen int64, key Key) ([]domain.Slot, bool, error) {
	raw, err := c.rdb.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get: %v", ErrCache, err)
	}

	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	result := make([]domain.Slot, 0, len(entries))
	for _, e := range entries {
		result = append(result, domain.Slot{Start: e.Start, End: e.End})
	}
	return result, true, nil
}

// Set сохраняет слоты под поколением gen
func (c *Cache) Set(ctx context.Context, gen int64, key Key, slots []domain.Slot) error {
	entries := make([]entry, 0, len(slots))
	for _, s := range slots {
		entries = append(entries, entry{Start: s.Start.UTC(), End: s.End.UTC()})
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if err := c.rdb.Set(ctx, c.entryKey(gen, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set: %v", ErrCache, err)
	}
	return nil
}

// Invalidate увеличивает поколение хоста
func (c *Cache) Invalidate(ctx context.Context, hostID int64) error {
	if err := c.rdb.Incr(ctx, c.generationKey(hostID)).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - host=%d: %v", ErrCache, hostID, err)
	}
	return nil
}

// Nop кэш-заглушка, когда Redis выключен
type Nop struct{}

func (Nop) Generation(context.Context, int64) (int64, error) { return 0, nil }

func (Nop) Get(context.Context, int64, Key) ([]domain.Slot, bool, error) { return nil, false, nil }

func (Nop) Set(context.Context, int64, Key, []domain.Slot) error { return nil }

func (Nop) Invalidate(context.Context, int64) error { return nil }
