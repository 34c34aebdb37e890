package repository

import (
	"context"
	"fmt"

	"fantasyleague/database"
	"fantasyleague/domain/entities"
	"fantasyleague/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type betRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) interfaces.BetRepository {
	return &betRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx Queryable) interfaces.BetRepository {
	return &betRepository{q: tx}
}

const betColumns = `id, user_id, market_kind, market_id, selection, amount, odds,
	potential_payout, status, ledger_entry_id, expires_at, settled_at,
	settled_by_admin_id, settlement_notes, created_at`

func scanBet(row pgx.Row) (*entities.Bet, error) {
	var bet entities.Bet
	err := row.Scan(
		&bet.ID,
		&bet.UserID,
		&bet.Market.Kind,
		&bet.Market.ID,
		&bet.Selection,
		&bet.Amount,
		&bet.Odds,
		&bet.PotentialPayout,
		&bet.Status,
		&bet.LedgerEntryID,
		&bet.ExpiresAt,
		&bet.SettledAt,
		&bet.SettledByAdminID,
		&bet.SettlementNotes,
		&bet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *betRepository) Create(ctx context.Context, bet *entities.Bet) error {
	query := `
		INSERT INTO bets (user_id, market_kind, market_id, selection, amount, odds,
			potential_payout, status, ledger_entry_id, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		bet.UserID,
		bet.Market.Kind,
		bet.Market.ID,
		bet.Selection,
		bet.Amount,
		bet.Odds,
		bet.PotentialPayout,
		bet.Status,
		bet.LedgerEntryID,
		bet.ExpiresAt,
	).Scan(&bet.ID, &bet.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

func (r *betRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

func (r *betRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

func (r *betRepository) GetActiveByMarket(ctx context.Context, ref entities.MarketRef) ([]*entities.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE market_kind = $1 AND market_id = $2 AND status = 'active'
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active bets for market %s: %w", ref, err)
	}
	defer rows.Close()

	return collectBets(rows)
}

func (r *betRepository) GetExpiredActive(ctx context.Context, limit int) ([]*entities.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at < CURRENT_TIMESTAMP
		ORDER BY expires_at
		LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired bets: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

// UpdateStatus is conditional on the bet still being active, which makes
// settlement idempotent under concurrent settles: the loser of the race
// affects zero rows and gets ErrBetNotActive.
func (r *betRepository) UpdateStatus(ctx context.Context, bet *entities.Bet) error {
	query := `
		UPDATE bets
		SET status = $2, settled_at = $3, settled_by_admin_id = $4, settlement_notes = $5
		WHERE id = $1 AND status = 'active'`

	tag, err := r.q.Exec(ctx, query,
		bet.ID,
		bet.Status,
		bet.SettledAt,
		bet.SettledByAdminID,
		bet.SettlementNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to update bet status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrBetNotActive
	}

	return nil
}

func (r *betRepository) GetStats(ctx context.Context, userID int64) (*entities.BetStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_bets,
			COUNT(*) FILTER (WHERE status = 'active') AS active_bets,
			COUNT(*) FILTER (WHERE status = 'won') AS total_wins,
			COUNT(*) FILTER (WHERE status = 'lost') AS total_losses,
			COALESCE(SUM(amount), 0) AS total_staked,
			COALESCE(SUM(potential_payout) FILTER (WHERE status = 'won'), 0) AS total_payouts
		FROM bets
		WHERE user_id = $1`

	var stats entities.BetStats
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&stats.TotalBets,
		&stats.ActiveBets,
		&stats.TotalWins,
		&stats.TotalLosses,
		&stats.TotalStaked,
		&stats.TotalPayouts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet stats: %w", err)
	}

	return &stats, nil
}

func collectBets(rows pgx.Rows) ([]*entities.Bet, error) {
	var bets []*entities.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}
