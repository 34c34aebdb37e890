package repository

import (
	"context"
	"fmt"

	"fantasyleague/database"
	"fantasyleague/domain/entities"
	"fantasyleague/domain/interfaces"
)

// The pool is a single row seeded by migration; it is only ever incremented,
// never recomputed from the ledger.
const systemPoolID = 1

type systemPoolRepository struct {
	q Queryable
}

// NewSystemPoolRepository creates a new system pool repository
func NewSystemPoolRepository(db *database.DB) interfaces.SystemPoolRepository {
	return &systemPoolRepository{q: db.Pool}
}

// newSystemPoolRepositoryWithTx creates a new system pool repository with a transaction
func newSystemPoolRepositoryWithTx(tx Queryable) interfaces.SystemPoolRepository {
	return &systemPoolRepository{q: tx}
}

func (r *systemPoolRepository) Get(ctx context.Context) (*entities.SystemPool, error) {
	query := `
		SELECT total_tokens_issued, total_tokens_in_circulation, total_cashed_out,
			house_balance, total_revenue, total_payouts, last_updated
		FROM system_pool
		WHERE id = $1`

	var pool entities.SystemPool
	err := r.q.QueryRow(ctx, query, systemPoolID).Scan(
		&pool.TotalTokensIssued,
		&pool.TotalTokensInCirculation,
		&pool.TotalCashedOut,
		&pool.HouseBalance,
		&pool.TotalRevenue,
		&pool.TotalPayouts,
		&pool.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get system pool: %w", err)
	}

	return &pool, nil
}

func (r *systemPoolRepository) Apply(ctx context.Context, delta entities.PoolDelta) error {
	if delta.IsZero() {
		return nil
	}

	query := `
		UPDATE system_pool
		SET total_tokens_issued = total_tokens_issued + $2,
			total_tokens_in_circulation = total_tokens_in_circulation + $3,
			total_cashed_out = total_cashed_out + $4,
			house_balance = house_balance + $5,
			total_revenue = total_revenue + $6,
			total_payouts = total_payouts + $7,
			last_updated = CURRENT_TIMESTAMP
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, systemPoolID,
		delta.Issued,
		delta.Circulation,
		delta.CashedOut,
		delta.House,
		delta.Revenue,
		delta.Payouts,
	)
	if err != nil {
		return fmt.Errorf("failed to apply pool delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("system pool row missing")
	}

	return nil
}
