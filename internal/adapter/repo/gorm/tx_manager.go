package gormrepo

import (
	"context"
	"fmt"

	"hexworld/internal/app/ports"

	"gorm.io/gorm"
)

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

// Begin opens a postgres transaction. Repositories called with the returned
// Tx's context run inside it.
func (m TxManager) Begin(ctx context.Context) (ports.Tx, error) {
	db := m.db.WithContext(ctx).Begin()
	if db.Error != nil {
		return nil, fmt.Errorf("begin tx: %w", db.Error)
	}
	return &tx{ctx: withTx(ctx, db), db: db}, nil
}

func (m TxManager) RunInTx(ctx context.Context, fn func(tx ports.Tx) error) error {
	return ports.RunInTx(ctx, m.Begin, fn)
}

type tx struct {
	ctx  context.Context
	db   *gorm.DB
	done bool
}

func (t *tx) Context() context.Context { return t.ctx }

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
	return t.db.Commit().Error
}

func (t *tx) Rollback() error {
	if t.done {
		return ports.ErrTxDone
	}
	t.done = true
	return t.db.Rollback().Error
}
