package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/hypemarket/coinauction/coinauction/database"
	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/hypemarket/coinauction/coinauction/database/repositories"
	"github.com/uptrace/bun"
)

const (
	DefaultMinIncrement    = 10
	DefaultExtensionWindow = 5 * time.Minute
	DefaultExtensionAmount = 5 * time.Minute
	DefaultMaxExtensions   = 10

	MaxAuctionTime = 7 * 24 * time.Hour
	MinAuctionTime = 10 * time.Second

	listCacheSize = 256
)

// Options tunes engine policy; zero values fall back to defaults.
type Options struct {
	MinIncrement    int64
	ExtensionWindow time.Duration
	ExtensionAmount time.Duration
	MaxExtensions   int
}

// txRunner executes a function inside a serializable transaction with
// internal retry. Satisfied by database.TxManager.
type txRunner interface {
	RunSerializable(ctx context.Context, fn func(context.Context, bun.Tx) error) error
}

// Engine owns the auction ledger: lifecycle transitions, bid validation and
// placement, proxy resolution, buy-now and expiry settlement. All durable
// state lives in the shared store; every state change runs as one
// serializable transaction.
type Engine struct {
	auctions repositories.AuctionRepository
	bids     repositories.BidRepository
	accounts repositories.AccountRepository
	outbox   repositories.OutboxRepository
	txm      txRunner

	minIncrement int64
	policy       ExtensionPolicy

	listCache *lru.Cache
	usedCodes codeRegistry

	// onSettled runs after a closing transaction committed, outside any
	// transaction. Used for archival export.
	onSettled func(context.Context, *models.Auction)
}

// SetSettlementHook registers a post-commit callback invoked whenever an
// auction leaves the active state through settlement or buy-now.
func (e *Engine) SetSettlementHook(hook func(context.Context, *models.Auction)) {
	e.onSettled = hook
}

func New(db *database.DB, opts Options) *Engine {
	if db == nil {
		panic("database cannot be nil")
	}

	bunDB := db.BunDB()
	return newEngine(
		repositories.NewAuctionRepository(bunDB),
		repositories.NewBidRepository(bunDB),
		repositories.NewAccountRepository(bunDB),
		repositories.NewOutboxRepository(bunDB),
		database.NewTxManager(bunDB),
		opts,
	)
}

func newEngine(
	auctions repositories.AuctionRepository,
	bids repositories.BidRepository,
	accounts repositories.AccountRepository,
	outbox repositories.OutboxRepository,
	txm txRunner,
	opts Options,
) *Engine {
	if opts.MinIncrement <= 0 {
		opts.MinIncrement = DefaultMinIncrement
	}
	if opts.ExtensionWindow <= 0 {
		opts.ExtensionWindow = DefaultExtensionWindow
	}
	if opts.ExtensionAmount <= 0 {
		opts.ExtensionAmount = DefaultExtensionAmount
	}
	if opts.MaxExtensions <= 0 {
		opts.MaxExtensions = DefaultMaxExtensions
	}

	cache, err := lru.New(listCacheSize)
	if err != nil {
		panic(fmt.Sprintf("failed to create listing cache: %v", err))
	}

	return &Engine{
		auctions:     auctions,
		bids:         bids,
		accounts:     accounts,
		outbox:       outbox,
		txm:          txm,
		minIncrement: opts.MinIncrement,
		policy: ExtensionPolicy{
			Window:        opts.ExtensionWindow,
			Amount:        opts.ExtensionAmount,
			MaxExtensions: opts.MaxExtensions,
		},
		listCache: cache,
	}
}

// Accounts exposes balance reads for the API layer.
func (e *Engine) Accounts() repositories.AccountRepository {
	return e.accounts
}

// Bids exposes bid history reads for the API layer.
func (e *Engine) Bids() repositories.BidRepository {
	return e.bids
}

// runSerializable wraps the transaction manager, translating an exhausted
// retry budget into the engine's transient-conflict failure.
func (e *Engine) runSerializable(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
	err := e.txm.RunSerializable(ctx, fn)
	if errors.Is(err, database.ErrSerializationConflict) {
		return ErrTransientConflict
	}
	return err
}

// queueNotification writes a notification intent in the caller's transaction.
// Delivery happens post-commit through the outbox dispatcher.
func (e *Engine) queueNotification(ctx context.Context, tx bun.Tx, actorID string, kind models.EventKind, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	return e.outbox.CreateWithTx(ctx, tx, &models.OutboxMessage{
		ActorID: actorID,
		Kind:    kind,
		Payload: body,
	})
}
