package testutil

import (
	"time"

	"fantasyleague/domain/entities"
)

// CreateTestMoneylineMarket creates a game market offering both moneylines
func CreateTestMoneylineMarket(homeOdds, awayOdds int) *entities.Market {
	return &entities.Market{
		Kind:          entities.MarketKindGame,
		HomeName:      "Home Team",
		AwayName:      "Away Team",
		HomeMoneyline: &homeOdds,
		AwayMoneyline: &awayOdds,
	}
}

// CreateTestFullMarket creates a matchup market carrying spread, moneyline,
// and total lines. Spread and total are given in half-point units.
func CreateTestFullMarket(spreadHalfPoints, totalHalfPoints int) *entities.Market {
	homeSpread, awaySpread := -110, -110
	homeML, awayML := -150, 130
	over, under := -105, -115
	return &entities.Market{
		Kind:             entities.MarketKindMatchup,
		HomeName:         "Home Squad",
		AwayName:         "Away Squad",
		SpreadHalfPoints: &spreadHalfPoints,
		HomeSpreadOdds:   &homeSpread,
		AwaySpreadOdds:   &awaySpread,
		HomeMoneyline:    &homeML,
		AwayMoneyline:    &awayML,
		TotalHalfPoints:  &totalHalfPoints,
		OverOdds:         &over,
		UnderOdds:        &under,
	}
}

// CreateTestBet creates an active bet with sensible defaults
func CreateTestBet(userID int64, ref entities.MarketRef, amount int64, odds int) *entities.Bet {
	return &entities.Bet{
		UserID:          userID,
		Market:          ref,
		Selection:       entities.SelectionHomeMoneyline,
		Amount:          amount,
		Odds:            odds,
		PotentialPayout: amount * 2,
		Status:          entities.BetStatusActive,
	}
}

// CreateTestBetWithExpiry creates an active bet that expires at the given time
func CreateTestBetWithExpiry(userID int64, ref entities.MarketRef, amount int64, expiresAt time.Time) *entities.Bet {
	bet := CreateTestBet(userID, ref, amount, -110)
	bet.ExpiresAt = &expiresAt
	return bet
}

// CreateTestLedgerEntry creates a completed purchase entry
func CreateTestLedgerEntry(userID, amount, balanceBefore int64) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		UserID:        userID,
		Kind:          entities.EntryKindPurchase,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore + amount,
		Description:   "test purchase",
		Status:        entities.EntryStatusCompleted,
	}
}
