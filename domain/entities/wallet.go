package entities

import (
	"errors"
	"time"
)

// Wallet tracks a single user's token balances. AvailableBalance is freely
// spendable; PendingBalance is reserved against open bets. Neither may ever
// go negative.
type Wallet struct {
	UserID           int64     `db:"user_id"`
	AvailableBalance int64     `db:"available_balance"`
	PendingBalance   int64     `db:"pending_balance"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// CanAfford reports whether the wallet has enough available tokens.
func (w *Wallet) CanAfford(amount int64) bool {
	return w.AvailableBalance >= amount
}

// HasPending reports whether the wallet has at least amount reserved.
func (w *Wallet) HasPending(amount int64) bool {
	return w.PendingBalance >= amount
}

// TotalBalance returns available plus pending tokens.
func (w *Wallet) TotalBalance() int64 {
	return w.AvailableBalance + w.PendingBalance
}

// Validate checks the wallet invariants.
func (w *Wallet) Validate() error {
	if w.AvailableBalance < 0 {
		return errors.New("available balance cannot be negative")
	}
	if w.PendingBalance < 0 {
		return errors.New("pending balance cannot be negative")
	}
	return nil
}
