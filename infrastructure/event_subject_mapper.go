package infrastructure

import (
	"fmt"

	"fantasyleague/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return "wallets.balance_changed"
	case events.EventTypeWalletCreated:
		return "wallets.created"
	case events.EventTypeBetPlaced:
		return "betting.placed"
	case events.EventTypeBetSettled:
		return "betting.settled"
	case events.EventTypeMarketSettled:
		return "markets.settled"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "wallets.balance_changed":
		return events.EventTypeBalanceChange
	case "wallets.created":
		return events.EventTypeWalletCreated
	case "betting.placed":
		return events.EventTypeBetPlaced
	case "betting.settled":
		return events.EventTypeBetSettled
	case "markets.settled":
		return events.EventTypeMarketSettled
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"wallets.balance_changed",
		"wallets.created",
		"betting.placed",
		"betting.settled",
		"markets.settled",
	}
}
