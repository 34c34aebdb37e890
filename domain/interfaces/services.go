package interfaces

import (
	"context"

	"fantasyleague/domain/entities"
	"fantasyleague/domain/events"
)

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a transaction and only
// releases them once the transaction commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all buffered events; called after commit
	Flush(ctx context.Context) error

	// Discard drops all buffered events; called on rollback
	Discard()
}

// LedgerService owns all token movement for a single unit of work. Every
// method performs its balance check, wallet update, ledger insert, and pool
// update against the repositories of one transaction; the caller commits or
// rolls back.
type LedgerService interface {
	// GetOrCreateWallet returns the user's wallet, creating a zero-balance
	// one on first use. Fails with ErrUserNotFound for unknown users.
	GetOrCreateWallet(ctx context.Context, userID int64) (*entities.Wallet, error)

	// AddTokens credits the available balance
	AddTokens(ctx context.Context, userID, amount int64, kind entities.EntryKind, description string, adminID *int64) (*entities.LedgerEntry, error)

	// RemoveTokens debits the available balance
	RemoveTokens(ctx context.Context, userID, amount int64, kind entities.EntryKind, description string, adminID *int64) (*entities.LedgerEntry, error)

	// MoveToPending reserves available tokens against a bet
	MoveToPending(ctx context.Context, userID, amount int64, description string, betID *int64) (*entities.LedgerEntry, error)

	// MoveFromPending releases reserved tokens back to available
	MoveFromPending(ctx context.Context, userID, amount int64, kind entities.EntryKind, description string, betID *int64) (*entities.LedgerEntry, error)

	// RemoveFromPending takes reserved tokens out of circulation to the house
	RemoveFromPending(ctx context.Context, userID, amount int64, description string, betID *int64) (*entities.LedgerEntry, error)

	// TransactionHistory returns the user's ledger entries, newest first
	TransactionHistory(ctx context.Context, userID int64, page, pageSize int) ([]*entities.LedgerEntry, error)
}

// BettingService owns the bet lifecycle: placement, cancellation, and
// settlement, including market-level batch settlement and the expiry sweep.
type BettingService interface {
	// PlaceBet prices the selection, reserves the stake, and persists the
	// bet in status Active
	PlaceBet(ctx context.Context, userID int64, ref entities.MarketRef, selection entities.Selection, amount int64) (*entities.Bet, error)

	// CancelBet refunds an active, unexpired bet. The acting user must be
	// the owner or an admin.
	CancelBet(ctx context.Context, betID, actingUserID int64) (*entities.Bet, error)

	// SettleBet resolves an active bet to the given terminal outcome
	SettleBet(ctx context.Context, betID int64, outcome entities.BetStatus, adminID int64, notes string) (*entities.Bet, error)

	// SettleBetFromMarket resolves an active bet using its market's final
	// result to determine the outcome
	SettleBetFromMarket(ctx context.Context, betID int64, adminID int64) (*entities.Bet, error)

	// ExpireBet refunds a single active bet whose expiry has passed
	ExpireBet(ctx context.Context, betID int64) (*entities.Bet, error)
}
