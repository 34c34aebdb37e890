package application

import (
	"context"
	"fmt"

	"fantasyleague/domain/entities"
	"fantasyleague/domain/events"

	log "github.com/sirupsen/logrus"
)

// MarketSettlementResult reports the outcome of a market-level batch
// settlement.
type MarketSettlementResult struct {
	SettledCount int
	FailedCount  int
}

// CreateMarket persists a new market line. Only admins create markets.
func (o *BettingOperations) CreateMarket(ctx context.Context, market *entities.Market, adminID int64) error {
	return withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		admin, err := uow.UserRepository().GetByID(ctx, adminID)
		if err != nil {
			return err
		}
		if admin == nil || !admin.IsAdmin {
			return fmt.Errorf("user %d cannot create markets: %w", adminID, entities.ErrUnauthorized)
		}
		return uow.MarketRepository().Create(ctx, market)
	})
}

// RecordMarketResult writes the final scores, marks the market settled, and
// resolves all of its active bets.
func (o *BettingOperations) RecordMarketResult(ctx context.Context, ref entities.MarketRef, homeScore, awayScore int, adminID int64) (MarketSettlementResult, error) {
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		admin, err := uow.UserRepository().GetByID(ctx, adminID)
		if err != nil {
			return err
		}
		if admin == nil || !admin.IsAdmin {
			return fmt.Errorf("user %d cannot settle markets: %w", adminID, entities.ErrUnauthorized)
		}

		market, err := uow.MarketRepository().GetByRef(ctx, ref)
		if err != nil {
			return err
		}
		if market == nil {
			return fmt.Errorf("market %s: %w", ref, entities.ErrMarketNotFound)
		}
		if market.IsSettled {
			return fmt.Errorf("market %s: %w", ref, entities.ErrMarketAlreadySettled)
		}
		return uow.MarketRepository().RecordResult(ctx, ref, homeScore, awayScore)
	})
	if err != nil {
		o.logFailure(err, log.Fields{"market": ref.String(), "adminID": adminID}, "Recording market result failed")
		return MarketSettlementResult{}, err
	}

	return o.SettleMarket(ctx, ref, adminID)
}

// SettleMarket resolves every active bet on a settled market, one
// transaction per bet. Per-bet failures are logged and skipped rather than
// aborting the batch: one bad bet must not block settlement of the rest of
// the market. Safe to re-run; already-settled bets are simply no longer
// listed.
func (o *BettingOperations) SettleMarket(ctx context.Context, ref entities.MarketRef, adminID int64) (MarketSettlementResult, error) {
	var active []*entities.Bet
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		market, err := uow.MarketRepository().GetByRef(ctx, ref)
		if err != nil {
			return err
		}
		if market == nil {
			return fmt.Errorf("market %s: %w", ref, entities.ErrMarketNotFound)
		}
		if !market.IsSettled {
			return fmt.Errorf("market %s: %w", ref, entities.ErrMarketNotSettled)
		}
		active, err = uow.BetRepository().GetActiveByMarket(ctx, ref)
		return err
	})
	if err != nil {
		o.logFailure(err, log.Fields{"market": ref.String()}, "Market settlement failed")
		return MarketSettlementResult{}, err
	}

	result := MarketSettlementResult{}
	for _, bet := range active {
		betID := bet.ID
		var settled *entities.Bet
		err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
			var err error
			settled, err = bettingServiceFor(uow, 0).SettleBetFromMarket(ctx, betID, adminID)
			return err
		})
		if err != nil {
			result.FailedCount++
			o.logFailure(err, log.Fields{
				"betID": betID, "market": ref.String(), "adminID": adminID,
			}, "Skipping bet during market settlement")
			continue
		}
		result.SettledCount++
		o.metrics.IncBetsSettled(ctx, settled.Status.String())
	}

	o.metrics.ObserveSettlementBatch(ctx, result.SettledCount, result.FailedCount)
	log.WithFields(log.Fields{
		"market":  ref.String(),
		"settled": result.SettledCount,
		"failed":  result.FailedCount,
	}).Info("Completed market settlement")

	if err := o.publisher.Publish(events.MarketSettledEvent{
		MarketKind:   string(ref.Kind),
		MarketID:     ref.ID,
		SettledCount: result.SettledCount,
		FailedCount:  result.FailedCount,
	}); err != nil {
		log.WithError(err).WithField("market", ref.String()).Error("Failed to publish market settled event")
	}

	return result, nil
}
