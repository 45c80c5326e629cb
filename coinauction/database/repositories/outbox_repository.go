package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/uptrace/bun"
)

type OutboxRepository interface {
	CreateWithTx(ctx context.Context, tx bun.Tx, msg *models.OutboxMessage) error
	GetPending(ctx context.Context, limit int) ([]*models.OutboxMessage, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64) error
}

type outboxRepository struct {
	db *bun.DB
}

func NewOutboxRepository(db *bun.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) CreateWithTx(ctx context.Context, tx bun.Tx, msg *models.OutboxMessage) error {
	msg.Status = models.OutboxStatusPending
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = time.Now()

	_, err := tx.NewInsert().Model(msg).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create outbox message: %w", err)
	}
	return nil
}

func (r *outboxRepository) GetPending(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	var msgs []*models.OutboxMessage

	err := r.db.NewSelect().
		Model(&msgs).
		Where("status = ?", models.OutboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	return msgs, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.OutboxMessage)(nil)).
		Set("status = ?", models.OutboxStatusSent).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to mark outbox message sent: %w", err)
	}
	return nil
}

// MarkFailed bumps the retry count and parks the message as failed once the
// retry budget is spent; otherwise it stays pending for the next pass.
func (r *outboxRepository) MarkFailed(ctx context.Context, id int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.OutboxMessage)(nil)).
		Set("retry_count = retry_count + 1").
		Set("status = CASE WHEN retry_count + 1 >= 5 THEN 'failed' ELSE 'pending' END").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to mark outbox message failed: %w", err)
	}
	return nil
}
