package application

import (
	"context"

	"fantasyleague/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Every money-moving entry point runs inside exactly one unit of work:
// begin, do the balance check and mutations, commit; any failure rolls the
// whole thing back. Domain events raised during the transaction are buffered
// and only published after a successful commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	UserRepository() interfaces.UserRepository
	WalletRepository() interfaces.WalletRepository
	LedgerEntryRepository() interfaces.LedgerEntryRepository
	SystemPoolRepository() interfaces.SystemPoolRepository
	BetRepository() interfaces.BetRepository
	MarketRepository() interfaces.MarketRepository

	// EventBus returns the transaction-scoped event publisher
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// withUnitOfWork runs fn inside one unit of work, committing on success and
// rolling back on any error. This is the single transaction boundary shared
// by every operation in the package.
func withUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	if err := fn(uow); err != nil {
		_ = uow.Rollback()
		return err
	}

	return uow.Commit()
}
