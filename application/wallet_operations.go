package application

import (
	"context"
	"fmt"

	"fantasyleague/domain/entities"

	log "github.com/sirupsen/logrus"
)

// WalletResult is the structured outcome of a wallet mutation.
type WalletResult struct {
	Success      bool
	EntryID      int64
	NewBalances  Balances
	ErrorMessage string
}

// WalletOperations is the external wallet surface: purchases, cashouts,
// admin adjustments, history, and the pool snapshot. Each call owns one unit
// of work.
type WalletOperations struct {
	uowFactory UnitOfWorkFactory
	metrics    Metrics
}

// NewWalletOperations creates the wallet operations facade; metrics may be
// nil.
func NewWalletOperations(uowFactory UnitOfWorkFactory, metrics Metrics) *WalletOperations {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &WalletOperations{uowFactory: uowFactory, metrics: metrics}
}

// GetOrCreateWallet returns the user's wallet, creating it on first use.
func (o *WalletOperations) GetOrCreateWallet(ctx context.Context, userID int64) (*entities.Wallet, error) {
	var wallet *entities.Wallet
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		var err error
		wallet, err = ledgerServiceFor(uow).GetOrCreateWallet(ctx, userID)
		return err
	})
	return wallet, err
}

// Purchase credits tokens bought through the external payment collaborator.
// The ledger records only the effect of the successful charge.
func (o *WalletOperations) Purchase(ctx context.Context, userID, amount int64, description string) WalletResult {
	return o.credit(ctx, userID, amount, entities.EntryKindPurchase, description, nil)
}

// AdminCredit grants tokens to a user by admin action.
func (o *WalletOperations) AdminCredit(ctx context.Context, userID, amount int64, description string, adminID int64) WalletResult {
	return o.adminAdjust(ctx, userID, amount, entities.EntryKindAdminCredit, description, adminID)
}

// AdminDebit removes tokens from a user by admin action.
func (o *WalletOperations) AdminDebit(ctx context.Context, userID, amount int64, description string, adminID int64) WalletResult {
	return o.adminAdjust(ctx, userID, amount, entities.EntryKindAdminDebit, description, adminID)
}

// Cashout removes tokens from circulation when a user cashes out.
func (o *WalletOperations) Cashout(ctx context.Context, userID, amount int64, description string) WalletResult {
	var entry *entities.LedgerEntry
	var balances Balances

	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		ledger := ledgerServiceFor(uow)
		var err error
		entry, err = ledger.RemoveTokens(ctx, userID, amount, entities.EntryKindCashoutCompleted, description, nil)
		if err != nil {
			return err
		}
		return o.snapshot(ctx, uow, userID, &balances)
	})
	if err != nil {
		o.logFailure(err, log.Fields{"userID": userID, "amount": amount}, "Cashout failed")
		return WalletResult{ErrorMessage: userMessage(err)}
	}

	o.metrics.IncLedgerEntries(ctx, entities.EntryKindCashoutCompleted.String())
	return WalletResult{Success: true, EntryID: entry.ID, NewBalances: balances}
}

// TransactionHistory returns the user's ledger entries, newest first.
func (o *WalletOperations) TransactionHistory(ctx context.Context, userID int64, page, pageSize int) ([]*entities.LedgerEntry, error) {
	var entries []*entities.LedgerEntry
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		var err error
		entries, err = ledgerServiceFor(uow).TransactionHistory(ctx, userID, page, pageSize)
		return err
	})
	return entries, err
}

// ReconciliationReport compares a wallet's available balance against the
// signed sum of its ledger entries.
type ReconciliationReport struct {
	UserID           int64
	AvailableBalance int64
	LedgerSum        int64
}

// Balanced reports whether the ledger reconstructs the wallet exactly.
func (r ReconciliationReport) Balanced() bool {
	return r.AvailableBalance == r.LedgerSum
}

// Reconcile audits one wallet against its ledger. A mismatch means an entry
// was recorded outside the transaction that moved the balance; it is
// reported, never silently corrected.
func (o *WalletOperations) Reconcile(ctx context.Context, userID int64) (ReconciliationReport, error) {
	report := ReconciliationReport{UserID: userID}
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		wallet, err := uow.WalletRepository().GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return fmt.Errorf("wallet for user %d: %w", userID, entities.ErrWalletNotFound)
		}
		sum, err := uow.LedgerEntryRepository().SumAvailableDeltas(ctx, userID)
		if err != nil {
			return err
		}
		report.AvailableBalance = wallet.AvailableBalance
		report.LedgerSum = sum
		return nil
	})
	if err != nil {
		return ReconciliationReport{}, err
	}

	if !report.Balanced() {
		log.WithFields(log.Fields{
			"userID":    userID,
			"available": report.AvailableBalance,
			"ledgerSum": report.LedgerSum,
		}).Error("Wallet does not reconcile against its ledger")
	}
	return report, nil
}

// PoolStats returns the current system pool snapshot.
func (o *WalletOperations) PoolStats(ctx context.Context) (*entities.SystemPool, error) {
	var pool *entities.SystemPool
	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		var err error
		pool, err = uow.SystemPoolRepository().Get(ctx)
		return err
	})
	return pool, err
}

func (o *WalletOperations) credit(ctx context.Context, userID, amount int64, kind entities.EntryKind, description string, adminID *int64) WalletResult {
	var entry *entities.LedgerEntry
	var balances Balances

	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		var err error
		entry, err = ledgerServiceFor(uow).AddTokens(ctx, userID, amount, kind, description, adminID)
		if err != nil {
			return err
		}
		return o.snapshot(ctx, uow, userID, &balances)
	})
	if err != nil {
		o.logFailure(err, log.Fields{"userID": userID, "amount": amount, "kind": kind}, "Token credit failed")
		return WalletResult{ErrorMessage: userMessage(err)}
	}

	o.metrics.IncLedgerEntries(ctx, kind.String())
	return WalletResult{Success: true, EntryID: entry.ID, NewBalances: balances}
}

func (o *WalletOperations) adminAdjust(ctx context.Context, userID, amount int64, kind entities.EntryKind, description string, adminID int64) WalletResult {
	var entry *entities.LedgerEntry
	var balances Balances

	err := withUnitOfWork(ctx, o.uowFactory, func(uow UnitOfWork) error {
		admin, err := uow.UserRepository().GetByID(ctx, adminID)
		if err != nil {
			return err
		}
		if admin == nil || !admin.IsAdmin {
			return fmt.Errorf("user %d cannot adjust balances: %w", adminID, entities.ErrUnauthorized)
		}

		ledger := ledgerServiceFor(uow)
		if kind == entities.EntryKindAdminCredit {
			entry, err = ledger.AddTokens(ctx, userID, amount, kind, description, &adminID)
		} else {
			entry, err = ledger.RemoveTokens(ctx, userID, amount, kind, description, &adminID)
		}
		if err != nil {
			return err
		}
		return o.snapshot(ctx, uow, userID, &balances)
	})
	if err != nil {
		o.logFailure(err, log.Fields{
			"userID": userID, "amount": amount, "kind": kind, "adminID": adminID,
		}, "Admin adjustment failed")
		return WalletResult{ErrorMessage: userMessage(err)}
	}

	o.metrics.IncLedgerEntries(ctx, kind.String())
	return WalletResult{Success: true, EntryID: entry.ID, NewBalances: balances}
}

func (o *WalletOperations) snapshot(ctx context.Context, uow UnitOfWork, userID int64, out *Balances) error {
	wallet, err := uow.WalletRepository().GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if wallet == nil {
		return fmt.Errorf("wallet for user %d: %w", userID, entities.ErrWalletNotFound)
	}
	*out = Balances{Available: wallet.AvailableBalance, Pending: wallet.PendingBalance}
	return nil
}

func (o *WalletOperations) logFailure(err error, fields log.Fields, msg string) {
	entry := log.WithFields(fields).WithError(err)
	if isDomainError(err) {
		entry.Warn(msg)
	} else {
		entry.Error(msg)
	}
}
