package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func settledMarket(home, away int) *Market {
	return &Market{
		ID:        1,
		Kind:      MarketKindGame,
		HomeScore: &home,
		AwayScore: &away,
		IsSettled: true,
	}
}

func TestMarket_AcceptsBets(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		market Market
		want   bool
	}{
		{"open without close time", Market{}, true},
		{"open before close time", Market{ClosesAt: &future}, true},
		{"closed past close time", Market{ClosesAt: &past}, false},
		{"settled never accepts", Market{IsSettled: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.market.AcceptsBets(now))
		})
	}
}

func TestMarket_SelectionOdds(t *testing.T) {
	t.Parallel()

	market := &Market{
		HomeMoneyline:    intPtr(-150),
		AwayMoneyline:    intPtr(130),
		SpreadHalfPoints: intPtr(-7), // home -3.5
		HomeSpreadOdds:   intPtr(-110),
		AwaySpreadOdds:   intPtr(-110),
	}

	o, err := market.SelectionOdds(SelectionHomeMoneyline)
	assert.NoError(t, err)
	assert.Equal(t, -150, o)

	o, err = market.SelectionOdds(SelectionAwaySpread)
	assert.NoError(t, err)
	assert.Equal(t, -110, o)

	// No total line on this market
	_, err = market.SelectionOdds(SelectionOver)
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = market.SelectionOdds("parlay")
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestMarket_ResolveSelection_Moneyline(t *testing.T) {
	t.Parallel()

	homeWin := settledMarket(24, 17)
	status, err := homeWin.ResolveSelection(SelectionHomeMoneyline)
	assert.NoError(t, err)
	assert.Equal(t, BetStatusWon, status)

	status, err = homeWin.ResolveSelection(SelectionAwayMoneyline)
	assert.NoError(t, err)
	assert.Equal(t, BetStatusLost, status)

	tie := settledMarket(20, 20)
	status, err = tie.ResolveSelection(SelectionHomeMoneyline)
	assert.NoError(t, err)
	assert.Equal(t, BetStatusPush, status)
}

func TestMarket_ResolveSelection_Spread(t *testing.T) {
	t.Parallel()

	// Home favored by 3.5: margin of 4 covers, margin of 3 does not
	market := settledMarket(24, 20)
	market.SpreadHalfPoints = intPtr(-7)

	status, err := market.ResolveSelection(SelectionHomeSpread)
	assert.NoError(t, err)
	assert.Equal(t, BetStatusWon, status)

	short := settledMarket(23, 20)
	short.SpreadHalfPoints = intPtr(-7)
	status, err = short.ResolveSelection(SelectionHomeSpread)
	assert.NoError(t, err)
	assert.Equal(t, BetStatusLost, status)

	// Whole-number spread landing exactly pushes both sides
	exact := settledMarket(23, 20)
	exact.SpreadHalfPoints = intPtr(-6) // home -3
	for _, sel := range []Selection{SelectionHomeSpread, SelectionAwaySpread} {
		status, err = exact.ResolveSelection(sel)
		assert.NoError(t, err)
		assert.Equal(t, BetStatusPush, status, "selection %s", sel)
	}

	// Spread selection without a spread line
	noLine := settledMarket(24, 20)
	_, err = noLine.ResolveSelection(SelectionHomeSpread)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestMarket_ResolveSelection_Total(t *testing.T) {
	t.Parallel()

	market := settledMarket(24, 20)     // combined 44
	market.TotalHalfPoints = intPtr(87) // 43.5

	status, err := market.ResolveSelection(SelectionOver)
	assert.NoError(t, err)
	assert.Equal(t, BetStatusWon, status)

	status, err = market.ResolveSelection(SelectionUnder)
	assert.NoError(t, err)
	assert.Equal(t, BetStatusLost, status)

	exact := settledMarket(24, 20)
	exact.TotalHalfPoints = intPtr(88) // 44 exactly
	status, err = exact.ResolveSelection(SelectionOver)
	assert.NoError(t, err)
	assert.Equal(t, BetStatusPush, status)
}

func TestMarket_ResolveSelection_RequiresResult(t *testing.T) {
	t.Parallel()

	unsettled := &Market{ID: 1, Kind: MarketKindGame}
	_, err := unsettled.ResolveSelection(SelectionHomeMoneyline)
	assert.ErrorIs(t, err, ErrMarketNotSettled)

	noScores := &Market{ID: 1, Kind: MarketKindGame, IsSettled: true}
	_, err = noScores.ResolveSelection(SelectionHomeMoneyline)
	assert.ErrorIs(t, err, ErrMarketNotSettled)
}

func TestMarketRef_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MarketRef{Kind: MarketKindMatchup, ID: 5}.Validate())
	assert.NoError(t, MarketRef{Kind: MarketKindGame, ID: 1}.Validate())
	assert.Error(t, MarketRef{Kind: MarketKindGame, ID: 0}.Validate())
	assert.Error(t, MarketRef{Kind: "season", ID: 3}.Validate())
	assert.Equal(t, "game/7", MarketRef{Kind: MarketKindGame, ID: 7}.String())
}
