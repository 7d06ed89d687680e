package memory

import (
	"context"
	"sync"
)

// hostLocks семафор на хоста: разные хосты не конкурируют
type hostLocks struct {
	mu sync.Mutex
	m  map[int64]chan struct{}
}

func newHostLocks() *hostLocks {
	return &hostLocks{m: make(map[int64]chan struct{})}
}

func (l *hostLocks) get(hostID int64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.m[hostID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.m[hostID] = ch
	}
	return ch
}

// acquire ждет блокировку хоста или отмену контекста
func (l *hostLocks) acquire(ctx context.Context, hostID int64) error {
	select {
	case l.get(hostID) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *hostLocks) release(hostID int64) {
	<-l.get(hostID)
}
