package entities

import (
	"errors"
	"time"
)

// BetStatus is the lifecycle state of a bet. Active is the only non-terminal
// state; once a bet reaches a terminal status it never transitions again.
type BetStatus string

const (
	BetStatusActive    BetStatus = "active"
	BetStatusWon       BetStatus = "won"
	BetStatusLost      BetStatus = "lost"
	BetStatusPush      BetStatus = "push"
	BetStatusCancelled BetStatus = "cancelled"
	BetStatusVoided    BetStatus = "voided"
	BetStatusExpired   BetStatus = "expired"
)

// IsTerminal reports whether the status ends the bet lifecycle.
func (s BetStatus) IsTerminal() bool {
	return s != BetStatusActive
}

// IsRefund reports whether settling with this status returns the stake.
func (s BetStatus) IsRefund() bool {
	switch s {
	case BetStatusPush, BetStatusCancelled, BetStatusVoided, BetStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s BetStatus) String() string {
	return string(s)
}

// Bet is a single wager against a market. The stake sits in the user's
// pending balance while the bet is Active, linked to the reservation ledger
// entry via LedgerEntryID.
type Bet struct {
	ID               int64      `db:"id"`
	UserID           int64      `db:"user_id"`
	Market           MarketRef  `db:"-"`
	Selection        Selection  `db:"selection"`
	Amount           int64      `db:"amount"`
	Odds             int        `db:"odds"`
	PotentialPayout  int64      `db:"potential_payout"`
	Status           BetStatus  `db:"status"`
	LedgerEntryID    *int64     `db:"ledger_entry_id"`
	ExpiresAt        *time.Time `db:"expires_at"`
	SettledAt        *time.Time `db:"settled_at"`
	SettledByAdminID *int64     `db:"settled_by_admin_id"`
	SettlementNotes  string     `db:"settlement_notes"`
	CreatedAt        time.Time  `db:"created_at"`
}

// IsActive reports whether the bet can still be settled or cancelled.
func (b *Bet) IsActive() bool {
	return b.Status == BetStatusActive
}

// CanBeCancelled holds only while the bet is Active and not past its expiry.
func (b *Bet) CanBeCancelled(now time.Time) bool {
	if !b.IsActive() {
		return false
	}
	if b.ExpiresAt != nil && now.After(*b.ExpiresAt) {
		return false
	}
	return true
}

// IsExpired reports whether the bet has an expiry in the past.
func (b *Bet) IsExpired(now time.Time) bool {
	return b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}

// NetWinnings returns the profit over the stake for a won bet.
func (b *Bet) NetWinnings() int64 {
	return b.PotentialPayout - b.Amount
}

// CanTransitionTo enforces the bet state machine: Active may move to any
// terminal status, terminal statuses never move again.
func (b *Bet) CanTransitionTo(next BetStatus) bool {
	return b.Status == BetStatusActive && next.IsTerminal()
}

// Validate performs basic validation on the bet.
func (b *Bet) Validate() error {
	if b.Amount <= 0 {
		return errors.New("bet amount must be positive")
	}
	if b.Odds == 0 {
		return errors.New("bet odds cannot be zero")
	}
	if b.PotentialPayout < b.Amount {
		return errors.New("potential payout cannot be below the stake")
	}
	return b.Market.Validate()
}

// BetStats summarizes a user's betting record.
type BetStats struct {
	TotalBets    int   `db:"total_bets"`
	ActiveBets   int   `db:"active_bets"`
	TotalWins    int   `db:"total_wins"`
	TotalLosses  int   `db:"total_losses"`
	TotalStaked  int64 `db:"total_staked"`
	TotalPayouts int64 `db:"total_payouts"`
}

// NetProfit returns payouts received minus tokens staked.
func (s *BetStats) NetProfit() int64 {
	return s.TotalPayouts - s.TotalStaked
}

// WinRate returns the fraction of settled win/loss bets that won.
func (s *BetStats) WinRate() float64 {
	decided := s.TotalWins + s.TotalLosses
	if decided == 0 {
		return 0
	}
	return float64(s.TotalWins) / float64(decided)
}
