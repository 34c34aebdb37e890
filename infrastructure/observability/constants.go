package observability

// Metric name prefixes
const (
	MetricPrefix = "ledger_engine"
)

// Metric names
const (
	// Ledger metrics
	LedgerEntriesTotal = MetricPrefix + ".ledger.entries_total"

	// Betting metrics
	BetsPlacedTotal  = MetricPrefix + ".bets.placed_total"
	BetsSettledTotal = MetricPrefix + ".bets.settled_total"
	BetsActive       = MetricPrefix + ".bets.active"

	// Settlement metrics
	SettlementBatchSize   = MetricPrefix + ".settlement.batch_size"
	SettlementFailedTotal = MetricPrefix + ".settlement.failed_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelKind      = "kind"
	LabelStatus    = "status"
	LabelEventType = "event_type"
)
