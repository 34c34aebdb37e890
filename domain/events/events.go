package events

import "time"

// EventType represents different types of domain events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeWalletCreated EventType = "wallet_created"
	EventTypeBetPlaced     EventType = "bet_placed"
	EventTypeBetSettled    EventType = "bet_settled"
	EventTypeMarketSettled EventType = "market_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents one ledger entry applied to a wallet
type BalanceChangeEvent struct {
	UserID          int64
	EntryKind       string
	Amount          int64
	AvailableBefore int64
	AvailableAfter  int64
	PendingAfter    int64
	RelatedBetID    *int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// WalletCreatedEvent represents a wallet lazily created on a user's first
// financial operation
type WalletCreatedEvent struct {
	UserID int64
}

func (e WalletCreatedEvent) Type() EventType {
	return EventTypeWalletCreated
}

// BetPlacedEvent represents a bet that was placed and funded
type BetPlacedEvent struct {
	BetID           int64
	UserID          int64
	MarketKind      string
	MarketID        int64
	Selection       string
	Amount          int64
	Odds            int
	PotentialPayout int64
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetSettledEvent represents a bet that reached a terminal status
type BetSettledEvent struct {
	BetID     int64
	UserID    int64
	Status    string
	Amount    int64
	Payout    int64
	SettledAt time.Time
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// MarketSettledEvent represents a market whose active bets were resolved
type MarketSettledEvent struct {
	MarketKind   string
	MarketID     int64
	SettledCount int
	FailedCount  int
}

func (e MarketSettledEvent) Type() EventType {
	return EventTypeMarketSettled
}
