package repository

import (
	"context"
	"fmt"

	"fantasyleague/database"
	"fantasyleague/domain/entities"
	"fantasyleague/domain/interfaces"
)

type ledgerEntryRepository struct {
	q Queryable
}

// NewLedgerEntryRepository creates a new ledger entry repository
func NewLedgerEntryRepository(db *database.DB) interfaces.LedgerEntryRepository {
	return &ledgerEntryRepository{q: db.Pool}
}

// newLedgerEntryRepositoryWithTx creates a new ledger entry repository with a transaction
func newLedgerEntryRepositoryWithTx(tx Queryable) interfaces.LedgerEntryRepository {
	return &ledgerEntryRepository{q: tx}
}

func (r *ledgerEntryRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (user_id, kind, amount, balance_before, balance_after,
			description, status, related_bet_id, processed_by_admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.Kind,
		entry.Amount,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.Description,
		entry.Status,
		entry.RelatedBetID,
		entry.ProcessedByAdminID,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	return nil
}

func (r *ledgerEntryRepository) GetByUser(ctx context.Context, userID int64, page, pageSize int) ([]*entities.LedgerEntry, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `
		SELECT id, user_id, kind, amount, balance_before, balance_after,
			description, status, related_bet_id, processed_by_admin_id, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		var entry entities.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Kind,
			&entry.Amount,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.Description,
			&entry.Status,
			&entry.RelatedBetID,
			&entry.ProcessedByAdminID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}

	return entries, nil
}

// SumAvailableDeltas applies each kind's sign in SQL so the result can be
// compared directly against the wallet's available balance.
func (r *ledgerEntryRepository) SumAvailableDeltas(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE kind
				WHEN 'purchase' THEN amount
				WHEN 'admin_credit' THEN amount
				WHEN 'bet_won' THEN amount
				WHEN 'bet_refunded' THEN amount
				WHEN 'admin_debit' THEN -amount
				WHEN 'cashout_completed' THEN -amount
				WHEN 'bet_placed' THEN -amount
				ELSE 0
			END), 0)
		FROM ledger_entries
		WHERE user_id = $1 AND status = 'completed'`

	var sum int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return sum, nil
}
