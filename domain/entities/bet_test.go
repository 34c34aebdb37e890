package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBetStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, BetStatusActive.IsTerminal())
	for _, s := range []BetStatus{
		BetStatusWon, BetStatusLost, BetStatusPush,
		BetStatusCancelled, BetStatusVoided, BetStatusExpired,
	} {
		assert.True(t, s.IsTerminal(), "status %s", s)
	}
}

func TestBetStatus_IsRefund(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status BetStatus
		want   bool
	}{
		{BetStatusPush, true},
		{BetStatusCancelled, true},
		{BetStatusVoided, true},
		{BetStatusExpired, true},
		{BetStatusWon, false},
		{BetStatusLost, false},
		{BetStatusActive, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.IsRefund(), "status %s", tt.status)
	}
}

func TestBet_CanTransitionTo(t *testing.T) {
	t.Parallel()

	active := &Bet{Status: BetStatusActive}
	for _, next := range []BetStatus{
		BetStatusWon, BetStatusLost, BetStatusPush,
		BetStatusCancelled, BetStatusVoided, BetStatusExpired,
	} {
		assert.True(t, active.CanTransitionTo(next), "active -> %s", next)
	}
	assert.False(t, active.CanTransitionTo(BetStatusActive))

	// Terminal states never move again, not even to another terminal state
	for _, from := range []BetStatus{BetStatusWon, BetStatusLost, BetStatusPush, BetStatusCancelled} {
		bet := &Bet{Status: from}
		for _, next := range []BetStatus{BetStatusWon, BetStatusLost, BetStatusVoided, BetStatusActive} {
			assert.False(t, bet.CanTransitionTo(next), "%s -> %s", from, next)
		}
	}
}

func TestBet_CanBeCancelled(t *testing.T) {
	t.Parallel()

	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name      string
		status    BetStatus
		expiresAt *time.Time
		want      bool
	}{
		{"active without expiry", BetStatusActive, nil, true},
		{"active before expiry", BetStatusActive, &future, true},
		{"active past expiry", BetStatusActive, &past, false},
		{"already won", BetStatusWon, nil, false},
		{"already cancelled", BetStatusCancelled, &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bet := &Bet{Status: tt.status, ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, bet.CanBeCancelled(now))
		})
	}
}

func TestBet_IsExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&Bet{}).IsExpired(now))
	assert.True(t, (&Bet{ExpiresAt: &past}).IsExpired(now))
	assert.False(t, (&Bet{ExpiresAt: &future}).IsExpired(now))
}

func TestBet_NetWinnings(t *testing.T) {
	t.Parallel()

	bet := &Bet{Amount: 40, PotentialPayout: 100}
	assert.Equal(t, int64(60), bet.NetWinnings())
}

func TestBet_Validate(t *testing.T) {
	t.Parallel()

	valid := &Bet{
		Amount:          100,
		Odds:            -110,
		PotentialPayout: 190,
		Market:          MarketRef{Kind: MarketKindGame, ID: 1},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Bet)
	}{
		{"zero amount", func(b *Bet) { b.Amount = 0 }},
		{"zero odds", func(b *Bet) { b.Odds = 0 }},
		{"payout below stake", func(b *Bet) { b.PotentialPayout = 50 }},
		{"missing market id", func(b *Bet) { b.Market.ID = 0 }},
		{"unknown market kind", func(b *Bet) { b.Market.Kind = "lottery" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bet := *valid
			tt.mutate(&bet)
			assert.Error(t, bet.Validate())
		})
	}
}

func TestBetStats(t *testing.T) {
	t.Parallel()

	stats := &BetStats{
		TotalBets:    10,
		ActiveBets:   2,
		TotalWins:    5,
		TotalLosses:  3,
		TotalStaked:  1000,
		TotalPayouts: 1400,
	}

	assert.Equal(t, int64(400), stats.NetProfit())
	assert.InDelta(t, 0.625, stats.WinRate(), 0.0001)

	empty := &BetStats{}
	assert.Equal(t, 0.0, empty.WinRate())
}
