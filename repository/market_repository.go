package repository

import (
	"context"
	"fmt"

	"fantasyleague/database"
	"fantasyleague/domain/entities"
	"fantasyleague/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type marketRepository struct {
	q Queryable
}

// NewMarketRepository creates a new market repository
func NewMarketRepository(db *database.DB) interfaces.MarketRepository {
	return &marketRepository{q: db.Pool}
}

// newMarketRepositoryWithTx creates a new market repository with a transaction
func newMarketRepositoryWithTx(tx Queryable) interfaces.MarketRepository {
	return &marketRepository{q: tx}
}

const marketColumns = `id, kind, home_name, away_name, spread_half_points,
	home_spread_odds, away_spread_odds, home_moneyline, away_moneyline,
	total_half_points, over_odds, under_odds, home_score, away_score,
	is_settled, closes_at, settled_at, created_at`

func scanMarket(row pgx.Row) (*entities.Market, error) {
	var market entities.Market
	err := row.Scan(
		&market.ID,
		&market.Kind,
		&market.HomeName,
		&market.AwayName,
		&market.SpreadHalfPoints,
		&market.HomeSpreadOdds,
		&market.AwaySpreadOdds,
		&market.HomeMoneyline,
		&market.AwayMoneyline,
		&market.TotalHalfPoints,
		&market.OverOdds,
		&market.UnderOdds,
		&market.HomeScore,
		&market.AwayScore,
		&market.IsSettled,
		&market.ClosesAt,
		&market.SettledAt,
		&market.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &market, nil
}

func (r *marketRepository) Create(ctx context.Context, market *entities.Market) error {
	query := `
		INSERT INTO markets (kind, home_name, away_name, spread_half_points,
			home_spread_odds, away_spread_odds, home_moneyline, away_moneyline,
			total_half_points, over_odds, under_odds, closes_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		market.Kind,
		market.HomeName,
		market.AwayName,
		market.SpreadHalfPoints,
		market.HomeSpreadOdds,
		market.AwaySpreadOdds,
		market.HomeMoneyline,
		market.AwayMoneyline,
		market.TotalHalfPoints,
		market.OverOdds,
		market.UnderOdds,
		market.ClosesAt,
	).Scan(&market.ID, &market.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create market: %w", err)
	}

	return nil
}

func (r *marketRepository) GetByRef(ctx context.Context, ref entities.MarketRef) (*entities.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets WHERE kind = $1 AND id = $2`

	market, err := scanMarket(r.q.QueryRow(ctx, query, ref.Kind, ref.ID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market %s: %w", ref, err)
	}

	return market, nil
}

// RecordResult is conditional on the market not being settled yet so a
// result can only be recorded once.
func (r *marketRepository) RecordResult(ctx context.Context, ref entities.MarketRef, homeScore, awayScore int) error {
	query := `
		UPDATE markets
		SET home_score = $3, away_score = $4, is_settled = TRUE, settled_at = CURRENT_TIMESTAMP
		WHERE kind = $1 AND id = $2 AND is_settled = FALSE`

	tag, err := r.q.Exec(ctx, query, ref.Kind, ref.ID, homeScore, awayScore)
	if err != nil {
		return fmt.Errorf("failed to record market result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByRef(ctx, ref)
		if err != nil {
			return err
		}
		if existing == nil {
			return entities.ErrMarketNotFound
		}
		return entities.ErrMarketAlreadySettled
	}

	return nil
}

func (r *marketRepository) GetSettledWithActiveBets(ctx context.Context, limit int) ([]*entities.Market, error) {
	query := `SELECT ` + marketColumns + `
		FROM markets m
		WHERE m.is_settled = TRUE
			AND EXISTS (
				SELECT 1 FROM bets b
				WHERE b.market_kind = m.kind AND b.market_id = m.id AND b.status = 'active'
			)
		ORDER BY m.settled_at
		LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled markets with active bets: %w", err)
	}
	defer rows.Close()

	var markets []*entities.Market
	for rows.Next() {
		market, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market: %w", err)
		}
		markets = append(markets, market)
	}

	return markets, rows.Err()
}
