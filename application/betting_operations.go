package application

import (
	"context"
	"time"

	"fantasyleague/domain/entities"
	"fantasyleague/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Balances is the wallet snapshot returned to callers after an operation.
type Balances struct {
	Available int64
	Pending   int64
}

// PlaceBetResult is the structured outcome of a placement request.
type PlaceBetResult struct {
	Success         bool
	BetID           int64
	Odds            int
	PotentialPayout int64
	NewBalances     Balances
	ErrorMessage    string
}

// CancelBetResult is the structured outcome of a cancellation request.
type CancelBetResult struct {
	Success      bool
	NewBalances  Balances
	ErrorMessage string
}

// SettleBetResult is the structured outcome of a settlement request.
type SettleBetResult struct {
	Success      bool
	Status       entities.BetStatus
	ErrorMessage string
}

// BettingOperations is the external betting surface. Each call owns one unit
// of work; batch settlement runs one unit of work per bet so a bad bet never
// blocks the rest of the market.
type BettingOperations struct {
	uowFactory UnitOfWorkFactory
	publisher  interfaces.EventPublisher
	metrics    Metrics
	betTTL     time.Duration
}

// NewBettingOperations creates the betting operations facade. publisher is
// used for batch-level events that do not belong to any single transaction;
// metrics may be nil. defaultBetTTL caps the life of bets on markets without
// a close time; zero leaves them open.
func NewBettingOperations(uowFactory UnitOfWorkFactory, publisher interfaces.EventPublisher, metrics Metrics, defaultBetTTL time.Duration) *BettingOperations {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &BettingOperations{
		uowFactory: uowFactory,
		publisher:  publisher,
		metrics:    metrics,
		betTTL:     defaultBetTTL,
	}
}

// PlaceBet prices the selection, reserves the stake, and persists the bet,
// all in one transaction.
func (o *BettingOperations) PlaceBet(ctx context.Context, userID int64, ref entities.MarketRef, selection entities.Selection, amount int64) PlaceBetResult {
	var bet *entities.Bet
	var balances Balances

	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		var err error
		bet, err = bettingServiceFor(uow, o.betTTL).PlaceBet(ctx, userID, ref, selection, amount)
		if err != nil {
			return err
		}
		wallet, err := uow.WalletRepository().GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		balances = Balances{Available: wallet.AvailableBalance, Pending: wallet.PendingBalance}
		return nil
	})
	if err != nil {
		o.logFailure(err, log.Fields{
			"userID": userID, "market": ref.String(), "selection": selection, "amount": amount,
		}, "Bet placement failed")
		return PlaceBetResult{ErrorMessage: userMessage(err)}
	}

	o.metrics.IncBetsPlaced(ctx)
	o.metrics.IncLedgerEntries(ctx, entities.EntryKindBetPlaced.String())

	return PlaceBetResult{
		Success:         true,
		BetID:           bet.ID,
		Odds:            bet.Odds,
		PotentialPayout: bet.PotentialPayout,
		NewBalances:     balances,
	}
}

// CancelBet refunds an active, unexpired bet owned by the acting user (or
// any bet, when the actor is an admin).
func (o *BettingOperations) CancelBet(ctx context.Context, betID, actingUserID int64) CancelBetResult {
	var balances Balances

	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		bet, err := bettingServiceFor(uow, o.betTTL).CancelBet(ctx, betID, actingUserID)
		if err != nil {
			return err
		}
		wallet, err := uow.WalletRepository().GetByUserID(ctx, bet.UserID)
		if err != nil {
			return err
		}
		balances = Balances{Available: wallet.AvailableBalance, Pending: wallet.PendingBalance}
		return nil
	})
	if err != nil {
		o.logFailure(err, log.Fields{"betID": betID, "actingUserID": actingUserID}, "Bet cancellation failed")
		return CancelBetResult{ErrorMessage: userMessage(err)}
	}

	o.metrics.IncBetsSettled(ctx, entities.BetStatusCancelled.String())
	return CancelBetResult{Success: true, NewBalances: balances}
}

// SettleBet resolves an active bet to the given terminal outcome. Settling a
// bet that is no longer active fails with a clear message and changes
// nothing, so retries are safe.
func (o *BettingOperations) SettleBet(ctx context.Context, betID int64, outcome entities.BetStatus, adminID int64, notes string) SettleBetResult {
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		_, err := bettingServiceFor(uow, o.betTTL).SettleBet(ctx, betID, outcome, adminID, notes)
		return err
	})
	if err != nil {
		o.logFailure(err, log.Fields{
			"betID": betID, "outcome": outcome, "adminID": adminID,
		}, "Bet settlement failed")
		return SettleBetResult{ErrorMessage: userMessage(err)}
	}

	o.metrics.IncBetsSettled(ctx, outcome.String())
	return SettleBetResult{Success: true, Status: outcome}
}

// Bets returns a user's bets, newest first.
func (o *BettingOperations) Bets(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error) {
	var bets []*entities.Bet
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		var err error
		bets, err = uow.BetRepository().GetByUser(ctx, userID, limit)
		return err
	})
	return bets, err
}

// Stats returns a user's betting record.
func (o *BettingOperations) Stats(ctx context.Context, userID int64) (*entities.BetStats, error) {
	var stats *entities.BetStats
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		var err error
		stats, err = uow.BetRepository().GetStats(ctx, userID)
		return err
	})
	return stats, err
}

// ExpireDueBets refunds active bets whose expiry has passed, one transaction
// per bet. Returns the number of bets expired.
func (o *BettingOperations) ExpireDueBets(ctx context.Context, limit int) (int, error) {
	var due []*entities.Bet
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		var err error
		due, err = uow.BetRepository().GetExpiredActive(ctx, limit)
		return err
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, bet := range due {
		betID := bet.ID
		err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
			_, err := bettingServiceFor(uow, o.betTTL).ExpireBet(ctx, betID)
			return err
		})
		if err != nil {
			// Bets settled between listing and expiry are expected; anything
			// else gets logged and skipped so the sweep keeps going.
			o.logFailure(err, log.Fields{"betID": betID}, "Bet expiry failed")
			continue
		}
		expired++
		o.metrics.IncBetsSettled(ctx, entities.BetStatusExpired.String())
	}

	if expired > 0 {
		log.WithField("expired", expired).Info("Expired overdue bets")
	}
	return expired, nil
}

// logFailure logs expected domain failures at warn level and unexpected
// storage errors, with full context, at error level.
func (o *BettingOperations) logFailure(err error, fields log.Fields, msg string) {
	entry := log.WithFields(fields).WithError(err)
	if isDomainError(err) {
		entry.Warn(msg)
	} else {
		entry.Error(msg)
	}
}
