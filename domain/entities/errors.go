package entities

import "errors"

// Sentinel errors for every recoverable failure the engine can report.
// Services wrap these with context via fmt.Errorf("...: %w", err) so callers
// can match with errors.Is while logs keep the full story.
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrUserNotFound         = errors.New("user not found")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrMarketNotFound       = errors.New("market not found")
	ErrMarketClosed         = errors.New("market is closed for betting")
	ErrMarketAlreadySettled = errors.New("market is already settled")
	ErrMarketNotSettled     = errors.New("market has no settlement result")
	ErrBetNotFound          = errors.New("bet not found")
	ErrBetNotActive         = errors.New("bet is not active")
	ErrUnauthorized         = errors.New("not authorized for this operation")
	ErrInvalidOdds          = errors.New("invalid odds")
	ErrInvalidSelection     = errors.New("selection is not offered by this market")
)
