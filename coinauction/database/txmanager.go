package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	DefaultTxTimeout = 30 * time.Second

	// How often a serialization conflict is retried before the caller sees it.
	serializationRetries = 3
)

// ErrSerializationConflict is returned after the retry budget for a
// serializable transaction is exhausted.
var ErrSerializationConflict = errors.New("transaction serialization conflict")

// TxOptions configures transaction behavior.
type TxOptions struct {
	IsolationLevel sql.IsolationLevel
	Timeout        time.Duration
}

// TxManager runs functions inside database transactions. Every state-changing
// ledger operation goes through RunSerializable so conflicting writes to the
// same auction or balance are strictly ordered by the store.
type TxManager struct {
	db *bun.DB
}

func NewTxManager(db *bun.DB) *TxManager {
	return &TxManager{db: db}
}

func StandardTxOptions() *TxOptions {
	return &TxOptions{
		IsolationLevel: sql.LevelReadCommitted,
		Timeout:        DefaultTxTimeout,
	}
}

func SerializableTxOptions() *TxOptions {
	return &TxOptions{
		IsolationLevel: sql.LevelSerializable,
		Timeout:        DefaultTxTimeout,
	}
}

// WithTransaction executes fn within a single transaction, rolling back on
// error and committing otherwise.
func (tm *TxManager) WithTransaction(ctx context.Context, opts *TxOptions, fn func(context.Context, bun.Tx) error) error {
	if opts == nil {
		opts = StandardTxOptions()
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx, err := tm.db.BeginTx(timeoutCtx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(timeoutCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RunSerializable executes fn in a serializable transaction, retrying a
// bounded number of times when the store reports a serialization failure or
// deadlock. A partial update is never visible: each attempt either commits
// whole or rolls back whole.
func (tm *TxManager) RunSerializable(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
	var err error
	for attempt := 0; attempt < serializationRetries; attempt++ {
		err = tm.WithTransaction(ctx, SerializableTxOptions(), fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}

		slog.Warn("Serialization conflict, retrying transaction",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		// Exponential backoff
		time.Sleep(time.Duration(math.Pow(2, float64(attempt))) * 50 * time.Millisecond)
	}

	return fmt.Errorf("%w: %v", ErrSerializationConflict, err)
}

// isSerializationFailure matches Postgres serialization_failure (40001) and
// deadlock_detected (40P01).
func isSerializationFailure(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		code := pgErr.Field('C')
		return code == "40001" || code == "40P01"
	}
	return false
}
