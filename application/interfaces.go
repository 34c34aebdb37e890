package application

import "context"

// Metrics is the subset of the observability provider the application layer
// reports to. A nil-safe no-op implementation is used when metrics are
// disabled.
type Metrics interface {
	IncLedgerEntries(ctx context.Context, kind string)
	IncBetsPlaced(ctx context.Context)
	IncBetsSettled(ctx context.Context, status string)
	ObserveSettlementBatch(ctx context.Context, settled, failed int)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) IncLedgerEntries(context.Context, string) {}
func (NopMetrics) IncBetsPlaced(context.Context)            {}
func (NopMetrics) IncBetsSettled(context.Context, string)   {}
func (NopMetrics) ObserveSettlementBatch(ctx context.Context, settled, failed int) {
}
