package memory

import (
	"context"

	"hexworld/internal/app/ports"
)

// TxManager serializes units of work on the store lock and restores a
// snapshot on rollback.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (m TxManager) Begin(ctx context.Context) (ports.Tx, error) {
	m.store.mu.Lock()
	return &tx{ctx: ctx, store: m.store, snapshot: m.store.data.clone()}, nil
}

func (m TxManager) RunInTx(ctx context.Context, fn func(tx ports.Tx) error) error {
	return ports.RunInTx(ctx, m.Begin, fn)
}

type tx struct {
	ctx      context.Context
	store    *Store
	snapshot tables
	done     bool
}

func (t *tx) Context() context.Context {
	return t.ctx
}

func (t *tx) Err() error {
	if t.done {
		return ports.ErrTxDone
	}
	return nil
}

func (t *tx) Commit() error {
	if t.done {
		return ports.ErrTxDone
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return ports.ErrTxDone
	}
	t.done = true
	t.store.data = t.snapshot
	t.store.mu.Unlock()
	return nil
}
