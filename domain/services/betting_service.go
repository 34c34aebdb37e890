package services

import (
	"context"
	"fmt"
	"time"

	"fantasyleague/domain/entities"
	"fantasyleague/domain/events"
	"fantasyleague/domain/interfaces"
	"fantasyleague/domain/odds"

	log "github.com/sirupsen/logrus"
)

type bettingService struct {
	ledger         interfaces.LedgerService
	userRepo       interfaces.UserRepository
	betRepo        interfaces.BetRepository
	marketRepo     interfaces.MarketRepository
	eventPublisher interfaces.EventPublisher
	defaultBetTTL  time.Duration
}

// NewBettingService creates a new betting service bound to the repositories
// of one unit of work. Placement and settlement each run entirely inside that
// transaction: either all fund movement and the bet row change commit
// together, or nothing changes.
//
// defaultBetTTL bounds the life of bets on markets with no close time: such
// bets expire that long after placement. Zero disables the fallback and
// leaves those bets open until explicitly cancelled or settled.
func NewBettingService(
	ledger interfaces.LedgerService,
	userRepo interfaces.UserRepository,
	betRepo interfaces.BetRepository,
	marketRepo interfaces.MarketRepository,
	eventPublisher interfaces.EventPublisher,
	defaultBetTTL time.Duration,
) interfaces.BettingService {
	return &bettingService{
		ledger:         ledger,
		userRepo:       userRepo,
		betRepo:        betRepo,
		marketRepo:     marketRepo,
		eventPublisher: eventPublisher,
		defaultBetTTL:  defaultBetTTL,
	}
}

func (s *bettingService) PlaceBet(ctx context.Context, userID int64, ref entities.MarketRef, selection entities.Selection, amount int64) (*entities.Bet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("cannot stake %d tokens: %w", amount, entities.ErrInvalidAmount)
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	market, err := s.marketRepo.GetByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get market %s: %w", ref, err)
	}
	if market == nil {
		return nil, fmt.Errorf("market %s: %w", ref, entities.ErrMarketNotFound)
	}
	if market.IsSettled {
		return nil, fmt.Errorf("market %s: %w", ref, entities.ErrMarketAlreadySettled)
	}
	if !market.AcceptsBets(time.Now().UTC()) {
		return nil, fmt.Errorf("market %s: %w", ref, entities.ErrMarketClosed)
	}

	price, err := market.SelectionOdds(selection)
	if err != nil {
		return nil, err
	}
	if !odds.Valid(price) {
		return nil, fmt.Errorf("market %s offers odds %d for %q: %w", ref, price, selection, entities.ErrInvalidOdds)
	}
	if min := odds.MinStakeFor(price); amount < min {
		return nil, fmt.Errorf("stake %d at odds %+d wins nothing, minimum is %d: %w",
			amount, price, min, entities.ErrInvalidAmount)
	}
	payout := odds.Payout(amount, price)

	// Reserve the stake. The reservation entry and the bet row commit in
	// the same transaction, so funds are never stranded in pending without
	// a matching bet.
	entry, err := s.ledger.MoveToPending(ctx, userID, amount,
		fmt.Sprintf("Bet on %s %s vs %s (%s)", market.Kind, market.HomeName, market.AwayName, selection), nil)
	if err != nil {
		return nil, err
	}

	expiresAt := market.ClosesAt
	if expiresAt == nil && s.defaultBetTTL > 0 {
		t := time.Now().UTC().Add(s.defaultBetTTL)
		expiresAt = &t
	}

	bet := &entities.Bet{
		UserID:          userID,
		Market:          ref,
		Selection:       selection,
		Amount:          amount,
		Odds:            price,
		PotentialPayout: payout,
		Status:          entities.BetStatusActive,
		LedgerEntryID:   &entry.ID,
		ExpiresAt:       expiresAt,
	}
	if err := bet.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bet for user %d on market %s: %w", userID, ref, err)
	}
	if err := s.betRepo.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet for user %d: %w", userID, err)
	}

	if err := s.eventPublisher.Publish(events.BetPlacedEvent{
		BetID:           bet.ID,
		UserID:          userID,
		MarketKind:      string(ref.Kind),
		MarketID:        ref.ID,
		Selection:       string(selection),
		Amount:          amount,
		Odds:            price,
		PotentialPayout: payout,
	}); err != nil {
		log.WithError(err).WithField("betID", bet.ID).Error("Failed to publish bet placed event")
	}

	return bet, nil
}

func (s *bettingService) CancelBet(ctx context.Context, betID, actingUserID int64) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", betID, err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, entities.ErrBetNotFound)
	}

	actor, err := s.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %d: %w", actingUserID, err)
	}
	if actor == nil {
		return nil, fmt.Errorf("user %d: %w", actingUserID, entities.ErrUserNotFound)
	}
	if !actor.CanActOn(bet.UserID) {
		return nil, fmt.Errorf("user %d cannot cancel bet %d: %w", actingUserID, betID, entities.ErrUnauthorized)
	}
	if !bet.CanBeCancelled(time.Now().UTC()) {
		return nil, fmt.Errorf("bet %d is %s: %w", betID, bet.Status, entities.ErrBetNotActive)
	}

	return s.resolve(ctx, bet, entities.BetStatusCancelled, nil, "cancelled by user")
}

func (s *bettingService) SettleBet(ctx context.Context, betID int64, outcome entities.BetStatus, adminID int64, notes string) (*entities.Bet, error) {
	if !outcome.IsTerminal() {
		return nil, fmt.Errorf("cannot settle bet %d to non-terminal status %q", betID, outcome)
	}

	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin %d: %w", adminID, err)
	}
	if admin == nil || !admin.IsAdmin {
		return nil, fmt.Errorf("user %d cannot settle bets: %w", adminID, entities.ErrUnauthorized)
	}

	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", betID, err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, entities.ErrBetNotFound)
	}

	return s.resolve(ctx, bet, outcome, &adminID, notes)
}

func (s *bettingService) SettleBetFromMarket(ctx context.Context, betID int64, adminID int64) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", betID, err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, entities.ErrBetNotFound)
	}

	market, err := s.marketRepo.GetByRef(ctx, bet.Market)
	if err != nil {
		return nil, fmt.Errorf("failed to get market %s: %w", bet.Market, err)
	}
	if market == nil {
		return nil, fmt.Errorf("market %s: %w", bet.Market, entities.ErrMarketNotFound)
	}

	outcome, err := market.ResolveSelection(bet.Selection)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bet %d on market %s: %w", betID, bet.Market, err)
	}

	// adminID zero means the settlement sweep drove this, not a human.
	var settledBy *int64
	if adminID != 0 {
		settledBy = &adminID
	}
	notes := fmt.Sprintf("market result %d-%d", *market.HomeScore, *market.AwayScore)
	return s.resolve(ctx, bet, outcome, settledBy, notes)
}

func (s *bettingService) ExpireBet(ctx context.Context, betID int64) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", betID, err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, entities.ErrBetNotFound)
	}
	if !bet.IsExpired(time.Now().UTC()) {
		return nil, fmt.Errorf("bet %d has not expired", betID)
	}

	return s.resolve(ctx, bet, entities.BetStatusExpired, nil, "expired before market result")
}

// resolve moves funds for the outcome and writes the terminal status, all in
// the current transaction. A bet that is already terminal is rejected before
// any fund movement, which makes settlement idempotent: the second call
// fails with ErrBetNotActive and produces zero ledger entries.
func (s *bettingService) resolve(ctx context.Context, bet *entities.Bet, outcome entities.BetStatus, adminID *int64, notes string) (*entities.Bet, error) {
	if !bet.CanTransitionTo(outcome) {
		return nil, fmt.Errorf("bet %d is %s: %w", bet.ID, bet.Status, entities.ErrBetNotActive)
	}

	switch {
	case outcome == entities.BetStatusWon:
		// Release the stake, then credit the net winnings as new tokens.
		if _, err := s.ledger.MoveFromPending(ctx, bet.UserID, bet.Amount, entities.EntryKindBetWon,
			fmt.Sprintf("Bet %d won: stake returned", bet.ID), &bet.ID); err != nil {
			return nil, err
		}
		if winnings := bet.NetWinnings(); winnings > 0 {
			if _, err := s.winningsCredit(ctx, bet, winnings); err != nil {
				return nil, err
			}
		}

	case outcome == entities.BetStatusLost:
		if _, err := s.ledger.RemoveFromPending(ctx, bet.UserID, bet.Amount,
			fmt.Sprintf("Bet %d lost", bet.ID), &bet.ID); err != nil {
			return nil, err
		}

	case outcome.IsRefund():
		if _, err := s.ledger.MoveFromPending(ctx, bet.UserID, bet.Amount, entities.EntryKindBetRefunded,
			fmt.Sprintf("Bet %d %s: stake refunded", bet.ID, outcome), &bet.ID); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown settlement outcome %q for bet %d", outcome, bet.ID)
	}

	now := time.Now().UTC()
	bet.Status = outcome
	bet.SettledAt = &now
	bet.SettledByAdminID = adminID
	bet.SettlementNotes = notes
	if err := s.betRepo.UpdateStatus(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to update bet %d to %s: %w", bet.ID, outcome, err)
	}

	payout := int64(0)
	if outcome == entities.BetStatusWon {
		payout = bet.PotentialPayout
	} else if outcome.IsRefund() {
		payout = bet.Amount
	}
	if err := s.eventPublisher.Publish(events.BetSettledEvent{
		BetID:     bet.ID,
		UserID:    bet.UserID,
		Status:    string(outcome),
		Amount:    bet.Amount,
		Payout:    payout,
		SettledAt: now,
	}); err != nil {
		log.WithError(err).WithField("betID", bet.ID).Error("Failed to publish bet settled event")
	}

	return bet, nil
}

func (s *bettingService) winningsCredit(ctx context.Context, bet *entities.Bet, winnings int64) (*entities.LedgerEntry, error) {
	entry, err := s.ledger.AddTokens(ctx, bet.UserID, winnings, entities.EntryKindBetWon,
		fmt.Sprintf("Bet %d won: winnings at odds %+d", bet.ID, bet.Odds), nil)
	if err != nil {
		return nil, err
	}
	return entry, nil
}
