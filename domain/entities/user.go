package entities

import "time"

// User is the minimal account record the engine needs: wallets are created
// only for users that exist, and admins may settle bets and adjust balances.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanActOn reports whether this user may operate on a bet owned by ownerID.
// Owners manage their own bets; admins manage anyone's.
func (u *User) CanActOn(ownerID int64) bool {
	return u.IsAdmin || u.ID == ownerID
}
