package infrastructure

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fantasyleague/domain/entities"
	"fantasyleague/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balanceChange(kind entities.EntryKind, amount, before, after, pending int64) events.BalanceChangeEvent {
	return events.BalanceChangeEvent{
		UserID:          1,
		EntryKind:       string(kind),
		Amount:          amount,
		AvailableBefore: before,
		AvailableAfter:  after,
		PendingAfter:    pending,
	}
}

func TestBalanceAuditListener_HandleEvent(t *testing.T) {
	listener := NewBalanceAuditListener(nil, NewEventSubjectMapper())
	ctx := context.Background()

	t.Run("consistent credit", func(t *testing.T) {
		event := balanceChange(entities.EntryKindPurchase, 1000, 0, 1000, 0)
		assert.NoError(t, listener.HandleEvent(ctx, event))
	})

	t.Run("consistent reservation", func(t *testing.T) {
		event := balanceChange(entities.EntryKindBetPlaced, 40, 1000, 960, 40)
		assert.NoError(t, listener.HandleEvent(ctx, event))
	})

	t.Run("lost stake leaves available untouched", func(t *testing.T) {
		event := balanceChange(entities.EntryKindBetLost, 40, 960, 960, 0)
		assert.NoError(t, listener.HandleEvent(ctx, event))
	})

	t.Run("drifted balance", func(t *testing.T) {
		event := balanceChange(entities.EntryKindPurchase, 1000, 0, 999, 0)
		err := listener.HandleEvent(ctx, event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "balance drift")
	})

	t.Run("negative pending", func(t *testing.T) {
		event := balanceChange(entities.EntryKindBetLost, 40, 960, 960, -40)
		err := listener.HandleEvent(ctx, event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative balance")
	})

	t.Run("wrong event type", func(t *testing.T) {
		err := listener.HandleEvent(ctx, events.WalletCreatedEvent{UserID: 1})
		assert.Error(t, err)
	})
}

func TestBalanceAuditListener_HandleMessage(t *testing.T) {
	listener := NewBalanceAuditListener(nil, NewEventSubjectMapper())

	envelope := func(t *testing.T, eventType string, payload any) []byte {
		t.Helper()
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		data, err := json.Marshal(EventEnvelope{
			EventID:       "11111111-1111-1111-1111-111111111111",
			EventType:     eventType,
			Timestamp:     time.Now().UTC(),
			SourceService: "ledger-engine",
			Payload:       raw,
		})
		require.NoError(t, err)
		return data
	}

	t.Run("consistent event acks", func(t *testing.T) {
		event := balanceChange(entities.EntryKindBetWon, 40, 960, 1000, 0)
		data := envelope(t, string(events.EventTypeBalanceChange), event)
		assert.NoError(t, listener.handleMessage(data))
	})

	t.Run("drifted event is rejected", func(t *testing.T) {
		event := balanceChange(entities.EntryKindBetWon, 40, 960, 1100, 0)
		data := envelope(t, string(events.EventTypeBalanceChange), event)
		assert.Error(t, listener.handleMessage(data))
	})

	t.Run("foreign event type is skipped", func(t *testing.T) {
		data := envelope(t, string(events.EventTypeBetPlaced), events.BetPlacedEvent{BetID: 7})
		assert.NoError(t, listener.handleMessage(data))
	})

	t.Run("malformed envelope", func(t *testing.T) {
		assert.Error(t, listener.handleMessage([]byte("not json")))
	})
}
