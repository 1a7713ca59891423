package tx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/observability"
)

// Transactor runs fn inside a database transaction, committing when fn
// returns nil and rolling back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

// Manager is the Postgres Transactor. Section reorders and post creation lock
// rows, so concurrent writers can deadlock; those attempts are retried.
type Manager struct {
	DB *sql.DB
}

const (
	maxAttempts = 5
	baseBackoff = 10 * time.Millisecond
)

var ErrRetryExhausted = errors.New("transaction retry exhausted")

func (m *Manager) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := m.run(ctx, fn)
		if err == nil || !isSerializationError(err) {
			return err
		}

		observability.TxRetriesTotal.Inc()
		observability.GetLogger(ctx).Debug("retrying transaction",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if err := sleep(ctx, backoff(attempt)); err != nil {
			return err
		}
	}
	return ErrRetryExhausted
}

// run executes one attempt. A panic in fn rolls back before propagating.
func (m *Manager) run(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	tx, err := m.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// backoff grows linearly with jitter so retried writers spread out.
func backoff(attempt int) time.Duration {
	d := time.Duration(attempt) * baseBackoff
	return d + rand.N(baseBackoff)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// isSerializationError matches serialization_failure and deadlock_detected.
func isSerializationError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
