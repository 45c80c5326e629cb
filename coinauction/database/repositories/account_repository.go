package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/uptrace/bun"
)

// ErrBalanceBelowZero is returned when a debit would take a balance negative.
var ErrBalanceBelowZero = errors.New("balance would go negative")

type AccountRepository interface {
	GetBalance(ctx context.Context, actorID string) (int64, error)
	GetForUpdate(ctx context.Context, tx bun.Tx, actorID string) (*models.Account, error)
	AdjustBalanceWithTx(ctx context.Context, tx bun.Tx, actorID string, delta int64) error
	EnsureWithTx(ctx context.Context, tx bun.Tx, actorID string) error
}

type accountRepository struct {
	db *bun.DB
}

func NewAccountRepository(db *bun.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetBalance(ctx context.Context, actorID string) (int64, error) {
	account := new(models.Account)
	err := r.db.NewSelect().
		Model(account).
		Where("id = ?", actorID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return account.Balance, nil
}

func (r *accountRepository) GetForUpdate(ctx context.Context, tx bun.Tx, actorID string) (*models.Account, error) {
	account := new(models.Account)
	err := tx.NewSelect().
		Model(account).
		Where("id = ?", actorID).
		For("UPDATE").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return account, nil
}

// AdjustBalanceWithTx applies a signed delta to the balance. Debits are
// guarded in SQL so a concurrent writer can never push the balance negative;
// zero rows affected reports ErrBalanceBelowZero.
func (r *accountRepository) AdjustBalanceWithTx(ctx context.Context, tx bun.Tx, actorID string, delta int64) error {
	if delta == 0 {
		return nil
	}

	result, err := tx.NewUpdate().
		Model((*models.Account)(nil)).
		Set("balance = balance + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND balance + ? >= 0", actorID, delta).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrBalanceBelowZero
	}
	return nil
}

// EnsureWithTx creates a zero-balance row inside the caller's transaction so
// a credit to a never-seen actor has a row to land on.
func (r *accountRepository) EnsureWithTx(ctx context.Context, tx bun.Tx, actorID string) error {
	_, err := tx.NewInsert().
		Model(&models.Account{
			ID:        actorID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to ensure account: %w", err)
	}
	return nil
}
