package services

import (
	"context"
	"fmt"

	"fantasyleague/domain/entities"
	"fantasyleague/domain/events"
	"fantasyleague/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	userRepo       interfaces.UserRepository
	walletRepo     interfaces.WalletRepository
	ledgerRepo     interfaces.LedgerEntryRepository
	poolRepo       interfaces.SystemPoolRepository
	eventPublisher interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service bound to the repositories of
// one unit of work. All balance checks and mutations below execute inside
// that transaction, so a failed check rolls everything back and no entry is
// written.
func NewLedgerService(
	userRepo interfaces.UserRepository,
	walletRepo interfaces.WalletRepository,
	ledgerRepo interfaces.LedgerEntryRepository,
	poolRepo interfaces.SystemPoolRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.LedgerService {
	return &ledgerService{
		userRepo:       userRepo,
		walletRepo:     walletRepo,
		ledgerRepo:     ledgerRepo,
		poolRepo:       poolRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *ledgerService) GetOrCreateWallet(ctx context.Context, userID int64) (*entities.Wallet, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %d: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("cannot open wallet for user %d: %w", userID, entities.ErrUserNotFound)
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}
	if wallet != nil {
		return wallet, nil
	}

	// Lazy creation on first financial operation.
	wallet, err = s.walletRepo.Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet for user %d: %w", userID, err)
	}

	if err := s.eventPublisher.Publish(events.WalletCreatedEvent{UserID: userID}); err != nil {
		log.WithError(err).WithField("userID", userID).Error("Failed to publish wallet created event")
	}

	return wallet, nil
}

func (s *ledgerService) AddTokens(ctx context.Context, userID, amount int64, kind entities.EntryKind, description string, adminID *int64) (*entities.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("cannot add %d tokens: %w", amount, entities.ErrInvalidAmount)
	}
	if kind.AvailableDirection() != 1 {
		return nil, fmt.Errorf("entry kind %q does not credit the available balance", kind)
	}

	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	before := wallet.AvailableBalance
	if err := s.walletRepo.UpdateBalances(ctx, userID, before+amount, wallet.PendingBalance); err != nil {
		return nil, fmt.Errorf("failed to credit wallet for user %d: %w", userID, err)
	}

	return s.record(ctx, &entities.LedgerEntry{
		UserID:             userID,
		Kind:               kind,
		Amount:             amount,
		BalanceBefore:      before,
		BalanceAfter:       before + amount,
		Description:        description,
		Status:             entities.EntryStatusCompleted,
		ProcessedByAdminID: adminID,
	}, wallet.PendingBalance)
}

func (s *ledgerService) RemoveTokens(ctx context.Context, userID, amount int64, kind entities.EntryKind, description string, adminID *int64) (*entities.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("cannot remove %d tokens: %w", amount, entities.ErrInvalidAmount)
	}
	if kind.AvailableDirection() != -1 || kind == entities.EntryKindBetPlaced {
		return nil, fmt.Errorf("entry kind %q does not debit the available balance", kind)
	}

	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !wallet.CanAfford(amount) {
		return nil, fmt.Errorf("user %d has %d available, needs %d: %w",
			userID, wallet.AvailableBalance, amount, entities.ErrInsufficientFunds)
	}

	before := wallet.AvailableBalance
	if err := s.walletRepo.UpdateBalances(ctx, userID, before-amount, wallet.PendingBalance); err != nil {
		return nil, fmt.Errorf("failed to debit wallet for user %d: %w", userID, err)
	}

	return s.record(ctx, &entities.LedgerEntry{
		UserID:             userID,
		Kind:               kind,
		Amount:             amount,
		BalanceBefore:      before,
		BalanceAfter:       before - amount,
		Description:        description,
		Status:             entities.EntryStatusCompleted,
		ProcessedByAdminID: adminID,
	}, wallet.PendingBalance)
}

func (s *ledgerService) MoveToPending(ctx context.Context, userID, amount int64, description string, betID *int64) (*entities.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("cannot reserve %d tokens: %w", amount, entities.ErrInvalidAmount)
	}

	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !wallet.CanAfford(amount) {
		return nil, fmt.Errorf("user %d has %d available, needs %d: %w",
			userID, wallet.AvailableBalance, amount, entities.ErrInsufficientFunds)
	}

	before := wallet.AvailableBalance
	newPending := wallet.PendingBalance + amount
	if err := s.walletRepo.UpdateBalances(ctx, userID, before-amount, newPending); err != nil {
		return nil, fmt.Errorf("failed to reserve tokens for user %d: %w", userID, err)
	}

	return s.record(ctx, &entities.LedgerEntry{
		UserID:        userID,
		Kind:          entities.EntryKindBetPlaced,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  before - amount,
		Description:   description,
		Status:        entities.EntryStatusCompleted,
		RelatedBetID:  betID,
	}, newPending)
}

func (s *ledgerService) MoveFromPending(ctx context.Context, userID, amount int64, kind entities.EntryKind, description string, betID *int64) (*entities.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("cannot release %d tokens: %w", amount, entities.ErrInvalidAmount)
	}
	if kind != entities.EntryKindBetWon && kind != entities.EntryKindBetRefunded {
		return nil, fmt.Errorf("entry kind %q cannot release pending tokens", kind)
	}

	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !wallet.HasPending(amount) {
		return nil, fmt.Errorf("user %d has %d pending, needs %d: %w",
			userID, wallet.PendingBalance, amount, entities.ErrInsufficientFunds)
	}

	before := wallet.AvailableBalance
	newPending := wallet.PendingBalance - amount
	if err := s.walletRepo.UpdateBalances(ctx, userID, before+amount, newPending); err != nil {
		return nil, fmt.Errorf("failed to release tokens for user %d: %w", userID, err)
	}

	return s.record(ctx, &entities.LedgerEntry{
		UserID:        userID,
		Kind:          kind,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  before + amount,
		Description:   description,
		Status:        entities.EntryStatusCompleted,
		RelatedBetID:  betID,
	}, newPending)
}

func (s *ledgerService) RemoveFromPending(ctx context.Context, userID, amount int64, description string, betID *int64) (*entities.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("cannot confiscate %d tokens: %w", amount, entities.ErrInvalidAmount)
	}

	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !wallet.HasPending(amount) {
		return nil, fmt.Errorf("user %d has %d pending, needs %d: %w",
			userID, wallet.PendingBalance, amount, entities.ErrInsufficientFunds)
	}

	// Pending only; the available balance was already debited when the
	// stake was reserved.
	newPending := wallet.PendingBalance - amount
	if err := s.walletRepo.UpdateBalances(ctx, userID, wallet.AvailableBalance, newPending); err != nil {
		return nil, fmt.Errorf("failed to confiscate tokens for user %d: %w", userID, err)
	}

	return s.record(ctx, &entities.LedgerEntry{
		UserID:        userID,
		Kind:          entities.EntryKindBetLost,
		Amount:        amount,
		BalanceBefore: wallet.AvailableBalance,
		BalanceAfter:  wallet.AvailableBalance,
		Description:   description,
		Status:        entities.EntryStatusCompleted,
		RelatedBetID:  betID,
	}, newPending)
}

func (s *ledgerService) TransactionHistory(ctx context.Context, userID int64, page, pageSize int) ([]*entities.LedgerEntry, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	entries, err := s.ledgerRepo.GetByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history for user %d: %w", userID, err)
	}
	return entries, nil
}

// record writes the ledger entry, applies its pool delta, and emits the
// balance change event. Any failure here must abort the enclosing
// transaction so the pool never drifts from the ledger.
func (s *ledgerService) record(ctx context.Context, entry *entities.LedgerEntry, pendingAfter int64) (*entities.LedgerEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger entry for user %d: %w", entry.UserID, err)
	}

	if err := s.ledgerRepo.Record(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record ledger entry for user %d: %w", entry.UserID, err)
	}

	if delta := entities.PoolDeltaFor(entry.Kind, entry.Amount); !delta.IsZero() {
		if err := s.poolRepo.Apply(ctx, delta); err != nil {
			return nil, fmt.Errorf("failed to update system pool for entry %d: %w", entry.ID, err)
		}
	}

	event := events.BalanceChangeEvent{
		UserID:          entry.UserID,
		EntryKind:       entry.Kind.String(),
		Amount:          entry.Amount,
		AvailableBefore: entry.BalanceBefore,
		AvailableAfter:  entry.BalanceAfter,
		PendingAfter:    pendingAfter,
		RelatedBetID:    entry.RelatedBetID,
	}
	log.WithFields(log.Fields{
		"userID":    event.UserID,
		"kind":      event.EntryKind,
		"amount":    event.Amount,
		"available": event.AvailableAfter,
		"pending":   event.PendingAfter,
	}).Debug("Publishing balance change event")
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return entry, nil
}
