package entities

import (
	"errors"
	"fmt"
	"time"
)

// MarketKind distinguishes a fantasy head-to-head matchup line from a real
// game line. A bet references exactly one kind.
type MarketKind string

const (
	MarketKindMatchup MarketKind = "matchup"
	MarketKindGame    MarketKind = "game"
)

// MarketRef points a bet at either a matchup market or a game market.
type MarketRef struct {
	Kind MarketKind
	ID   int64
}

// Validate checks that the reference names exactly one market.
func (r MarketRef) Validate() error {
	if r.ID <= 0 {
		return errors.New("market reference requires a market id")
	}
	if r.Kind != MarketKindMatchup && r.Kind != MarketKindGame {
		return fmt.Errorf("unknown market kind %q", r.Kind)
	}
	return nil
}

func (r MarketRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Selection is the side of a market line a bet is taken on.
type Selection string

const (
	SelectionHomeMoneyline Selection = "home_ml"
	SelectionAwayMoneyline Selection = "away_ml"
	SelectionHomeSpread    Selection = "home_spread"
	SelectionAwaySpread    Selection = "away_spread"
	SelectionOver          Selection = "over"
	SelectionUnder         Selection = "under"
)

// Market is an external betting line. Spread, moneyline prices, and the
// total are all optional; a selection is only offered when its line is set.
// Once IsSettled flips the market accepts no further bets and existing bets
// are resolved against the final scores.
type Market struct {
	ID       int64      `db:"id"`
	Kind     MarketKind `db:"kind"`
	HomeName string     `db:"home_name"`
	AwayName string     `db:"away_name"`

	// Lines. Spread is expressed from the home side in half-point units so a
	// -3.5 spread stores -7. Odds are American.
	SpreadHalfPoints *int `db:"spread_half_points"`
	HomeSpreadOdds   *int `db:"home_spread_odds"`
	AwaySpreadOdds   *int `db:"away_spread_odds"`
	HomeMoneyline    *int `db:"home_moneyline"`
	AwayMoneyline    *int `db:"away_moneyline"`
	TotalHalfPoints  *int `db:"total_half_points"`
	OverOdds         *int `db:"over_odds"`
	UnderOdds        *int `db:"under_odds"`

	// Settlement inputs.
	HomeScore *int       `db:"home_score"`
	AwayScore *int       `db:"away_score"`
	IsSettled bool       `db:"is_settled"`
	ClosesAt  *time.Time `db:"closes_at"`
	SettledAt *time.Time `db:"settled_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// Ref returns the reference bets use to point at this market.
func (m *Market) Ref() MarketRef {
	return MarketRef{Kind: m.Kind, ID: m.ID}
}

// AcceptsBets reports whether a new bet may be placed at the given time.
func (m *Market) AcceptsBets(now time.Time) bool {
	if m.IsSettled {
		return false
	}
	if m.ClosesAt != nil && now.After(*m.ClosesAt) {
		return false
	}
	return true
}

// SelectionOdds returns the American odds offered for the selection, or
// ErrInvalidSelection when the market does not carry that line.
func (m *Market) SelectionOdds(sel Selection) (int, error) {
	var odds *int
	switch sel {
	case SelectionHomeMoneyline:
		odds = m.HomeMoneyline
	case SelectionAwayMoneyline:
		odds = m.AwayMoneyline
	case SelectionHomeSpread:
		if m.SpreadHalfPoints != nil {
			odds = m.HomeSpreadOdds
		}
	case SelectionAwaySpread:
		if m.SpreadHalfPoints != nil {
			odds = m.AwaySpreadOdds
		}
	case SelectionOver:
		if m.TotalHalfPoints != nil {
			odds = m.OverOdds
		}
	case SelectionUnder:
		if m.TotalHalfPoints != nil {
			odds = m.UnderOdds
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, sel)
	}
	if odds == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, sel)
	}
	return *odds, nil
}

// ResolveSelection determines the terminal outcome of a selection from the
// market's final scores. The market must be settled with both scores
// recorded; otherwise ErrMarketNotSettled is returned.
func (m *Market) ResolveSelection(sel Selection) (BetStatus, error) {
	if !m.IsSettled || m.HomeScore == nil || m.AwayScore == nil {
		return "", ErrMarketNotSettled
	}
	home, away := *m.HomeScore, *m.AwayScore

	switch sel {
	case SelectionHomeMoneyline, SelectionAwayMoneyline:
		if home == away {
			return BetStatusPush, nil
		}
		homeWon := home > away
		if (sel == SelectionHomeMoneyline) == homeWon {
			return BetStatusWon, nil
		}
		return BetStatusLost, nil

	case SelectionHomeSpread, SelectionAwaySpread:
		if m.SpreadHalfPoints == nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidSelection, sel)
		}
		// Margin and spread in half points, home perspective.
		margin := (home - away) * 2
		adjusted := margin + *m.SpreadHalfPoints
		if adjusted == 0 {
			return BetStatusPush, nil
		}
		homeCovered := adjusted > 0
		if (sel == SelectionHomeSpread) == homeCovered {
			return BetStatusWon, nil
		}
		return BetStatusLost, nil

	case SelectionOver, SelectionUnder:
		if m.TotalHalfPoints == nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidSelection, sel)
		}
		combined := (home + away) * 2
		if combined == *m.TotalHalfPoints {
			return BetStatusPush, nil
		}
		over := combined > *m.TotalHalfPoints
		if (sel == SelectionOver) == over {
			return BetStatusWon, nil
		}
		return BetStatusLost, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSelection, sel)
}
