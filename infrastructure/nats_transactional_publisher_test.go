package infrastructure

import (
	"context"
	"errors"
	"testing"

	"fantasyleague/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_BuffersUntilFlush(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher).(*NATSTransactionalPublisher)

	placed := events.BetPlacedEvent{BetID: 7, UserID: 1, Amount: 40, Odds: 150, PotentialPayout: 100}
	settled := events.BetSettledEvent{BetID: 7, UserID: 1, Status: "won", Amount: 40, Payout: 100}

	require.NoError(t, transPublisher.Publish(placed))
	require.NoError(t, transPublisher.Publish(settled))

	// Nothing reaches NATS before the transaction commits
	assert.Len(t, mockPublisher.PublishedEvents, 0)

	require.NoError(t, transPublisher.Flush(context.Background()))

	// Events are delivered in publish order
	require.Len(t, mockPublisher.PublishedEvents, 2)
	assert.Equal(t, placed, mockPublisher.PublishedEvents[0])
	assert.Equal(t, settled, mockPublisher.PublishedEvents[1])

	// A second flush finds nothing left
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 2)
}

func TestNATSTransactionalPublisher_DiscardDropsPending(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher).(*NATSTransactionalPublisher)

	require.NoError(t, transPublisher.Publish(events.WalletCreatedEvent{UserID: 1}))
	require.NoError(t, transPublisher.Publish(events.BalanceChangeEvent{UserID: 1, Amount: 500}))

	// Rollback path
	transPublisher.Discard()

	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}

func TestNATSTransactionalPublisher_FlushContinuesPastFailures(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishError: errors.New("nats unavailable"),
	}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher).(*NATSTransactionalPublisher)

	require.NoError(t, transPublisher.Publish(events.BetPlacedEvent{BetID: 7}))

	// Flush itself succeeds; the failed publish is logged and dropped
	require.NoError(t, transPublisher.Flush(context.Background()))

	mockPublisher.PublishError = nil
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}
