package memory

import "context"

// pending незафиксированные изменения открытых транзакций.
// Для ключа хранится значение до первого изменения в транзакции:
// читатели вне этой транзакции видят его до коммита или отката (read committed).
// Все методы вызываются под Store.mu.
type pending[K comparable, V any] struct {
	m map[K]pendingEntry[V]
}

type pendingEntry[V any] struct {
	tx      *memTx
	before  V
	existed bool
}

func newPending[K comparable, V any]() *pending[K, V] {
	return &pending[K, V]{m: make(map[K]pendingEntry[V])}
}

// touch запоминает зафиксированное значение ключа перед изменением в транзакции из ctx.
// Вне транзакции изменение фиксируется сразу и ничего не запоминается.
func (p *pending[K, V]) touch(ctx context.Context, key K, before V, existed bool) {
	tx, ok := txFrom(ctx)
	if !ok {
		return
	}
	if _, seen := p.m[key]; seen {
		return
	}

	p.m[key] = pendingEntry[V]{tx: tx, before: before, existed: existed}
	tx.onEnd(func() { delete(p.m, key) })
}

// view возвращает значение ключа, видимое из ctx
func (p *pending[K, V]) view(ctx context.Context, key K, current V, exists bool) (V, bool) {
	e, ok := p.m[key]
	if !ok {
		return current, exists
	}
	if tx, in := txFrom(ctx); in && tx == e.tx {
		return current, exists
	}
	return e.before, e.existed
}

// hidden ключи, удаленные чужой открытой транзакцией: в текущем состоянии их нет,
// но читателю из ctx они еще видны
func (p *pending[K, V]) hidden(ctx context.Context, present func(K) bool) map[K]V {
	tx, _ := txFrom(ctx)
	out := make(map[K]V)
	for k, e := range p.m {
		if e.tx == tx || !e.existed || present(k) {
			continue
		}
		out[k] = e.before
	}
	return out
}
