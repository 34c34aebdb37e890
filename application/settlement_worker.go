package application

import (
	"context"
	"time"

	"fantasyleague/domain/entities"

	log "github.com/sirupsen/logrus"
)

const sweepBatchLimit = 500

// SweepActorID is the admin identity recorded when the background sweep,
// rather than a human admin, drives a settlement. Zero means "system".
const SweepActorID int64 = 0

// SettlementWorker periodically expires overdue bets and re-drives
// settlement for markets that were settled while still carrying active bets
// (for example after a crash mid-batch). Both operations are idempotent, so
// the sweep is safe to run at any cadence.
type SettlementWorker struct {
	uowFactory UnitOfWorkFactory
	betting    *BettingOperations
}

// NewSettlementWorker creates a new settlement sweep worker.
func NewSettlementWorker(uowFactory UnitOfWorkFactory, betting *BettingOperations) *SettlementWorker {
	return &SettlementWorker{
		uowFactory: uowFactory,
		betting:    betting,
	}
}

// Start begins the sweep loop. The returned function stops the worker.
func (w *SettlementWorker) Start(ctx context.Context, interval time.Duration) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Settlement worker started, sweeping every %v", interval)

		for {
			select {
			case <-ctx.Done():
				log.Info("Settlement worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Settlement worker shutting down (stop requested)...")
				return
			case <-time.After(interval):
				w.sweep(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

func (w *SettlementWorker) sweep(ctx context.Context) {
	if _, err := w.betting.ExpireDueBets(ctx, sweepBatchLimit); err != nil {
		log.WithError(err).Error("Settlement sweep: expiring bets failed")
	}

	refs, err := w.pendingMarkets(ctx)
	if err != nil {
		log.WithError(err).Error("Settlement sweep: listing markets failed")
		return
	}

	for _, ref := range refs {
		if _, err := w.betting.SettleMarket(ctx, ref, SweepActorID); err != nil {
			log.WithError(err).WithField("market", ref.String()).Error("Settlement sweep: market settlement failed")
		}
	}
}

// pendingMarkets lists settled markets that still carry active bets.
func (w *SettlementWorker) pendingMarkets(ctx context.Context) ([]entities.MarketRef, error) {
	var refs []entities.MarketRef
	err := withUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		markets, err := uow.MarketRepository().GetSettledWithActiveBets(ctx, sweepBatchLimit)
		if err != nil {
			return err
		}
		for _, m := range markets {
			refs = append(refs, m.Ref())
		}
		return nil
	})
	return refs, err
}
