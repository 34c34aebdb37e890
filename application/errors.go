package application

import (
	"errors"

	"fantasyleague/domain/entities"
)

// userMessage converts an engine error into a message safe to show end
// users. Known domain failures get a specific message; anything else is a
// storage or programming error that is logged with full context and
// reported generically, never swallowed into a false success.
func userMessage(err error) string {
	switch {
	case errors.Is(err, entities.ErrInsufficientFunds):
		return "You don't have enough tokens for that."
	case errors.Is(err, entities.ErrInvalidAmount):
		return "Amount must be a positive number of tokens."
	case errors.Is(err, entities.ErrUserNotFound):
		return "That user does not exist."
	case errors.Is(err, entities.ErrWalletNotFound):
		return "No wallet found for that user."
	case errors.Is(err, entities.ErrMarketNotFound):
		return "That market does not exist."
	case errors.Is(err, entities.ErrMarketAlreadySettled):
		return "That market has already been settled."
	case errors.Is(err, entities.ErrMarketClosed):
		return "That market is closed for betting."
	case errors.Is(err, entities.ErrBetNotFound):
		return "That bet does not exist."
	case errors.Is(err, entities.ErrBetNotActive):
		return "That bet has already been settled or cancelled."
	case errors.Is(err, entities.ErrUnauthorized):
		return "You are not allowed to do that."
	case errors.Is(err, entities.ErrInvalidOdds), errors.Is(err, entities.ErrInvalidSelection):
		return "That selection is not available on this market."
	default:
		return "Something went wrong. Please try again later."
	}
}

// isDomainError reports whether the error is one of the engine's expected,
// recoverable failures rather than an unexpected storage error.
func isDomainError(err error) bool {
	for _, sentinel := range []error{
		entities.ErrInsufficientFunds,
		entities.ErrInvalidAmount,
		entities.ErrUserNotFound,
		entities.ErrWalletNotFound,
		entities.ErrMarketNotFound,
		entities.ErrMarketClosed,
		entities.ErrMarketAlreadySettled,
		entities.ErrMarketNotSettled,
		entities.ErrBetNotFound,
		entities.ErrBetNotActive,
		entities.ErrUnauthorized,
		entities.ErrInvalidOdds,
		entities.ErrInvalidSelection,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
