package repository

import (
	"context"

	"fantasyleague/application"
	"fantasyleague/database"
	"fantasyleague/domain/interfaces"
	"fantasyleague/infrastructure"
)

// discardPublisher adapts NoopEventPublisher to the transactional publisher
// interface; repository tests care about rows, not events.
type discardPublisher struct {
	*infrastructure.NoopEventPublisher
}

func newDiscardPublisher() discardPublisher {
	return discardPublisher{infrastructure.NewNoopEventPublisher()}
}

func (discardPublisher) Flush(context.Context) error { return nil }

func (discardPublisher) Discard() {}

// NewTestUnitOfWorkFactory creates a unit of work factory for tests that
// drops all events
func NewTestUnitOfWorkFactory(db *database.DB) application.UnitOfWorkFactory {
	return NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return newDiscardPublisher()
	})
}

// CreateTestUnitOfWork creates a unit of work for testing with the provided
// transactional publisher
func CreateTestUnitOfWork(db *database.DB, publisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	factory := NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return publisher
	})
	return factory.Create()
}
