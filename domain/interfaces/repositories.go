package interfaces

import (
	"context"

	"fantasyleague/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID, or nil when the user does not exist
	GetByID(ctx context.Context, userID int64) (*entities.User, error)

	// Create creates a new user
	Create(ctx context.Context, username string, isAdmin bool) (*entities.User, error)
}

// WalletRepository defines the interface for wallet data access
type WalletRepository interface {
	// GetByUserID retrieves a wallet, or nil when none exists yet
	GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error)

	// Create creates a zero-balance wallet for the user
	Create(ctx context.Context, userID int64) (*entities.Wallet, error)

	// UpdateBalances writes both balances atomically
	UpdateBalances(ctx context.Context, userID, available, pending int64) error
}

// LedgerEntryRepository defines the interface for the append-only ledger
type LedgerEntryRepository interface {
	// Record inserts a new ledger entry; entries are never updated or deleted
	Record(ctx context.Context, entry *entities.LedgerEntry) error

	// GetByUser returns entries for a user, newest first, paged
	GetByUser(ctx context.Context, userID int64, page, pageSize int) ([]*entities.LedgerEntry, error)

	// SumAvailableDeltas returns the signed sum of a user's entries, which
	// must equal the wallet's available balance
	SumAvailableDeltas(ctx context.Context, userID int64) (int64, error)
}

// SystemPoolRepository defines the interface for the singleton pool row
type SystemPoolRepository interface {
	// Get returns the current pool snapshot
	Get(ctx context.Context) (*entities.SystemPool, error)

	// Apply increments the pool counters by the delta
	Apply(ctx context.Context, delta entities.PoolDelta) error
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create creates a new bet record
	Create(ctx context.Context, bet *entities.Bet) error

	// GetByID retrieves a bet by its ID, or nil when not found
	GetByID(ctx context.Context, id int64) (*entities.Bet, error)

	// GetByUser returns bets for a user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error)

	// GetActiveByMarket returns all active bets referencing a market
	GetActiveByMarket(ctx context.Context, ref entities.MarketRef) ([]*entities.Bet, error)

	// GetExpiredActive returns active bets whose expiry has passed
	GetExpiredActive(ctx context.Context, limit int) ([]*entities.Bet, error)

	// UpdateStatus transitions a bet to a terminal status. The update is
	// conditional on the bet still being active; zero rows affected means
	// the bet was already settled.
	UpdateStatus(ctx context.Context, bet *entities.Bet) error

	// GetStats returns betting statistics for a user
	GetStats(ctx context.Context, userID int64) (*entities.BetStats, error)
}

// MarketRepository defines the interface for market data access
type MarketRepository interface {
	// Create creates a new market
	Create(ctx context.Context, market *entities.Market) error

	// GetByRef retrieves a market, or nil when not found
	GetByRef(ctx context.Context, ref entities.MarketRef) (*entities.Market, error)

	// RecordResult writes final scores and flips is_settled. The update is
	// conditional on the market not being settled yet.
	RecordResult(ctx context.Context, ref entities.MarketRef, homeScore, awayScore int) error

	// GetSettledWithActiveBets returns settled markets that still have
	// active bets, for the settlement sweep
	GetSettledWithActiveBets(ctx context.Context, limit int) ([]*entities.Market, error)
}
