package application

import (
	"time"

	"fantasyleague/domain/interfaces"
	"fantasyleague/domain/services"
)

// ledgerServiceFor builds a ledger service over one unit of work's
// repositories.
func ledgerServiceFor(uow UnitOfWork) interfaces.LedgerService {
	return services.NewLedgerService(
		uow.UserRepository(),
		uow.WalletRepository(),
		uow.LedgerEntryRepository(),
		uow.SystemPoolRepository(),
		uow.EventBus(),
	)
}

// bettingServiceFor builds a betting service over one unit of work's
// repositories. defaultBetTTL only matters on the placement path; settlement
// callers pass zero.
func bettingServiceFor(uow UnitOfWork, defaultBetTTL time.Duration) interfaces.BettingService {
	return services.NewBettingService(
		ledgerServiceFor(uow),
		uow.UserRepository(),
		uow.BetRepository(),
		uow.MarketRepository(),
		uow.EventBus(),
		defaultBetTTL,
	)
}
