package ports

import "context"

// Tx is one unit of work. Repository calls made with Context() run inside it.
type Tx interface {
	Context() context.Context
	Commit() error
	Rollback() error
	// Err returns ErrTxDone after Commit or Rollback.
	Err() error
}

type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// RunInTx commits when fn succeeds and rolls back otherwise.
func RunInTx(ctx context.Context, begin func(context.Context) (Tx, error), fn func(tx Tx) error) (err error) {
	tx, err := begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
