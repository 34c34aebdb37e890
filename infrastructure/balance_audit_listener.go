package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"fantasyleague/domain/entities"
	"fantasyleague/domain/events"

	log "github.com/sirupsen/logrus"
)

const balanceChangeSubject = "wallets.balance_changed"

// BalanceAuditListener consumes balance change events and cross-checks the
// arithmetic they report: the after balance must equal the before balance
// plus the entry kind's signed amount, and no balance may go negative. A
// failed check is returned as an error so the message is redelivered and the
// drift stays visible in the logs.
type BalanceAuditListener struct {
	natsClient    *NATSClient
	subjectMapper *EventSubjectMapper
}

// NewBalanceAuditListener creates a new balance audit listener
func NewBalanceAuditListener(natsClient *NATSClient, subjectMapper *EventSubjectMapper) *BalanceAuditListener {
	return &BalanceAuditListener{
		natsClient:    natsClient,
		subjectMapper: subjectMapper,
	}
}

// Start subscribes the listener to the balance change subject
func (l *BalanceAuditListener) Start() error {
	if err := l.natsClient.Subscribe(balanceChangeSubject, l.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe balance audit listener: %w", err)
	}
	log.WithField("subject", balanceChangeSubject).Info("Balance audit listener started")
	return nil
}

func (l *BalanceAuditListener) handleMessage(data []byte) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	expectedType := l.subjectMapper.MapSubjectToEventType(balanceChangeSubject)
	if envelope.EventType != string(expectedType) {
		log.WithFields(log.Fields{
			"eventType": envelope.EventType,
			"eventId":   envelope.EventID,
		}).Warn("Ignoring unexpected event type on balance change subject")
		return nil
	}

	var event events.BalanceChangeEvent
	if err := json.Unmarshal(envelope.Payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal balance change payload: %w", err)
	}

	return l.audit(event)
}

// HandleEvent audits a balance change delivered in-process. It satisfies the
// local handler signature of NATSEventPublisher.RegisterLocalHandler, so the
// publishing process checks its own events without a NATS round trip.
func (l *BalanceAuditListener) HandleEvent(_ context.Context, event events.Event) error {
	change, ok := event.(events.BalanceChangeEvent)
	if !ok {
		return fmt.Errorf("balance audit received %s event", event.Type())
	}
	return l.audit(change)
}

func (l *BalanceAuditListener) audit(e events.BalanceChangeEvent) error {
	kind := entities.EntryKind(e.EntryKind)
	expected := e.AvailableBefore + kind.AvailableDirection()*e.Amount
	if e.AvailableAfter != expected {
		return fmt.Errorf("balance drift for user %d: %s of %d moved available %d to %d, expected %d",
			e.UserID, e.EntryKind, e.Amount, e.AvailableBefore, e.AvailableAfter, expected)
	}
	if e.AvailableAfter < 0 || e.PendingAfter < 0 {
		return fmt.Errorf("negative balance for user %d after %s: available %d, pending %d",
			e.UserID, e.EntryKind, e.AvailableAfter, e.PendingAfter)
	}

	log.WithFields(log.Fields{
		"userID":    e.UserID,
		"entryKind": e.EntryKind,
		"amount":    e.Amount,
	}).Debug("Balance change audited")
	return nil
}
