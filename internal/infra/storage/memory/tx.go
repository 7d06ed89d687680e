package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

type txKey struct{}

// memTx журнал транзакции: функции отката, снятие незафиксированных изменений
// и удерживаемые блокировки хостов
type memTx struct {
	mu      sync.Mutex
	undo    []func()
	cleanup []func()
	held    []int64
}

// onEnd добавляет функцию, выполняемую под s.mu при коммите и при откате
func (tx *memTx) onEnd(fn func()) {
	tx.mu.Lock()
	tx.cleanup = append(tx.cleanup, fn)
	tx.mu.Unlock()
}

func txFrom(ctx context.Context) (*memTx, bool) {
	tx, ok := ctx.Value(txKey{}).(*memTx)
	return tx, ok && tx != nil
}

// record добавляет откат изменения. Вызывается под s.mu.
func record(ctx context.Context, fn func()) {
	if tx, ok := txFrom(ctx); ok {
		tx.mu.Lock()
		tx.undo = append(tx.undo, fn)
		tx.mu.Unlock()
	}
}

// TxManager выполняет функции атомарно относительно хранилища в памяти.
// Писатели изолированы блокировкой хоста (LockHost), откат - журналом.
// Читатели вне транзакции не видят ее изменений до коммита.
type TxManager struct {
	s *Store
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции. Сериализуемость ledger'а дает блокировка хоста.
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	tx := &memTx{}
	defer func() {
		if p := recover(); p != nil {
			m.rollback(tx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		m.rollback(tx)
		return err
	}

	// Отмена контекста до фиксации откатывает транзакцию, как и в PostgreSQL
	if err := ctx.Err(); err != nil {
		m.rollback(tx)
		return fmt.Errorf("memory: commit: %w", err)
	}

	m.s.mu.Lock()
	m.finish(tx)
	m.s.mu.Unlock()

	m.release(tx)
	return nil
}

func (m *TxManager) rollback(tx *memTx) {
	tx.mu.Lock()
	undo := tx.undo
	tx.undo = nil
	tx.mu.Unlock()

	m.s.mu.Lock()
	for _, fn := range slices.Backward(undo) {
		fn()
	}
	m.finish(tx)
	m.s.mu.Unlock()

	m.release(tx)
}

// finish делает изменения транзакции видимыми всем. Вызывается под s.mu.
func (m *TxManager) finish(tx *memTx) {
	tx.mu.Lock()
	cleanup := tx.cleanup
	tx.cleanup = nil
	tx.mu.Unlock()

	for _, fn := range cleanup {
		fn()
	}
}

func (m *TxManager) release(tx *memTx) {
	tx.mu.Lock()
	held := tx.held
	tx.held = nil
	tx.mu.Unlock()

	for _, hostID := range held {
		m.s.locks.release(hostID)
	}
}
