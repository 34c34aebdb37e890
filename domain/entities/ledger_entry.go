package entities

import (
	"errors"
	"time"
)

// EntryKind identifies what kind of balance-affecting event a ledger entry
// records.
type EntryKind string

const (
	// Funding and admin adjustments
	EntryKindPurchase    EntryKind = "purchase"
	EntryKindAdminCredit EntryKind = "admin_credit"
	EntryKindAdminDebit  EntryKind = "admin_debit"

	// Bet lifecycle
	EntryKindBetPlaced   EntryKind = "bet_placed"
	EntryKindBetWon      EntryKind = "bet_won"
	EntryKindBetLost     EntryKind = "bet_lost"
	EntryKindBetRefunded EntryKind = "bet_refunded"

	// Cashouts
	EntryKindCashoutCompleted EntryKind = "cashout_completed"
)

// EntryStatus marks whether the recorded operation completed.
type EntryStatus string

const (
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusFailed    EntryStatus = "failed"
)

// LedgerEntry is the immutable record of one balance-affecting event.
// Amount is always a positive magnitude; the kind determines direction.
// BalanceBefore/BalanceAfter track the available balance, so the sum of
// AvailableDelta over a user's entries reconstructs their available balance.
// Entries are never updated or deleted; corrections are new offsetting
// entries.
type LedgerEntry struct {
	ID                 int64       `db:"id"`
	UserID             int64       `db:"user_id"`
	Kind               EntryKind   `db:"kind"`
	Amount             int64       `db:"amount"`
	BalanceBefore      int64       `db:"balance_before"`
	BalanceAfter       int64       `db:"balance_after"`
	Description        string      `db:"description"`
	Status             EntryStatus `db:"status"`
	RelatedBetID       *int64      `db:"related_bet_id"`
	ProcessedByAdminID *int64      `db:"processed_by_admin_id"`
	CreatedAt          time.Time   `db:"created_at"`
}

// AvailableDirection returns the sign this kind applies to the available
// balance: +1 credit, -1 debit, 0 for entries that only touch the pending
// balance (a lost bet's stake was already out of available when it was
// reserved).
func (k EntryKind) AvailableDirection() int64 {
	switch k {
	case EntryKindPurchase, EntryKindAdminCredit, EntryKindBetWon, EntryKindBetRefunded:
		return 1
	case EntryKindAdminDebit, EntryKindCashoutCompleted, EntryKindBetPlaced:
		return -1
	case EntryKindBetLost:
		return 0
	default:
		return 0
	}
}

// IsBetRelated reports whether the kind belongs to the bet lifecycle.
func (k EntryKind) IsBetRelated() bool {
	switch k {
	case EntryKindBetPlaced, EntryKindBetWon, EntryKindBetLost, EntryKindBetRefunded:
		return true
	}
	return false
}

// IsAdminAdjustment reports whether the kind is an admin-driven adjustment.
func (k EntryKind) IsAdminAdjustment() bool {
	return k == EntryKindAdminCredit || k == EntryKindAdminDebit
}

// String returns the string representation of the entry kind.
func (k EntryKind) String() string {
	return string(k)
}

// AvailableDelta returns the signed change this entry applied to the
// available balance.
func (e *LedgerEntry) AvailableDelta() int64 {
	return e.Kind.AvailableDirection() * e.Amount
}

// Validate checks the arithmetic invariant of the entry.
func (e *LedgerEntry) Validate() error {
	if e.Amount <= 0 {
		return errors.New("entry amount must be a positive magnitude")
	}
	if e.BalanceAfter != e.BalanceBefore+e.AvailableDelta() {
		return errors.New("balance after does not match balance before plus signed amount")
	}
	return nil
}
