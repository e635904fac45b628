package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrTxBroken marks savepoint management failures. Once returned, the
// surrounding transaction can no longer be used and the caller must abort.
var ErrTxBroken = errors.New("transaction no longer usable")

// WithSavepoint runs fn inside a savepoint so that a failing statement can
// be recovered without poisoning the enclosing transaction. A plain error
// return means fn failed but the transaction is still usable; an error
// wrapping ErrTxBroken means the whole transaction must be rolled back.
func WithSavepoint(ctx context.Context, q sqlx.ExtContext, name string, fn func() error) error {
	if _, err := q.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("%w: savepoint %s: %v", ErrTxBroken, name, err)
	}
	if err := fn(); err != nil {
		if _, rbErr := q.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("%w: rollback to savepoint %s: %v", ErrTxBroken, name, rbErr)
		}
		return err
	}
	if _, err := q.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("%w: release savepoint %s: %v", ErrTxBroken, name, err)
	}
	return nil
}
