package repository

import (
	"context"
	"testing"
	"time"

	"fantasyleague/domain/entities"
	"fantasyleague/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMarket(t *testing.T, testDB *testutil.TestDatabase, market *entities.Market) entities.MarketRef {
	t.Helper()
	require.NoError(t, NewMarketRepository(testDB.DB).Create(context.Background(), market))
	return entities.MarketRef{Kind: market.Kind, ID: market.ID}
}

func TestBetRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	t.Run("bet not found", func(t *testing.T) {
		bet, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, bet)
	})

	t.Run("round trip", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "bettor", false)
		require.NoError(t, err)
		ref := createMarket(t, testDB, testutil.CreateTestMoneylineMarket(-150, 130))

		bet := testutil.CreateTestBet(user.ID, ref, 100, -150)
		require.NoError(t, repo.Create(ctx, bet))
		assert.NotZero(t, bet.ID)
		assert.False(t, bet.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, bet.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, user.ID, got.UserID)
		assert.Equal(t, ref, got.Market)
		assert.Equal(t, entities.SelectionHomeMoneyline, got.Selection)
		assert.Equal(t, int64(100), got.Amount)
		assert.Equal(t, -150, got.Odds)
		assert.Equal(t, int64(200), got.PotentialPayout)
		assert.Equal(t, entities.BetStatusActive, got.Status)
		assert.Nil(t, got.SettledAt)
	})

	t.Run("payout below stake rejected by schema", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "badbettor", false)
		require.NoError(t, err)
		ref := createMarket(t, testDB, testutil.CreateTestMoneylineMarket(-150, 130))

		bet := testutil.CreateTestBet(user.ID, ref, 100, -150)
		bet.PotentialPayout = 50
		assert.Error(t, repo.Create(ctx, bet))
	})
}

func TestBetRepository_GetActiveByMarket(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "marketbettor", false)
	require.NoError(t, err)
	ref := createMarket(t, testDB, testutil.CreateTestMoneylineMarket(-150, 130))
	otherRef := createMarket(t, testDB, testutil.CreateTestMoneylineMarket(-110, -110))

	first := testutil.CreateTestBet(user.ID, ref, 100, -150)
	require.NoError(t, repo.Create(ctx, first))
	second := testutil.CreateTestBet(user.ID, ref, 50, -150)
	require.NoError(t, repo.Create(ctx, second))
	elsewhere := testutil.CreateTestBet(user.ID, otherRef, 75, -110)
	require.NoError(t, repo.Create(ctx, elsewhere))

	// Settle the second bet so only the first remains active on ref
	now := time.Now().UTC()
	second.Status = entities.BetStatusLost
	second.SettledAt = &now
	require.NoError(t, repo.UpdateStatus(ctx, second))

	active, err := repo.GetActiveByMarket(ctx, ref)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)
}

func TestBetRepository_GetExpiredActive(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "expiringbettor", false)
	require.NoError(t, err)
	ref := createMarket(t, testDB, testutil.CreateTestMoneylineMarket(-150, 130))

	expired := testutil.CreateTestBetWithExpiry(user.ID, ref, 100, time.Now().Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, expired))
	future := testutil.CreateTestBetWithExpiry(user.ID, ref, 100, time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, future))
	open := testutil.CreateTestBet(user.ID, ref, 100, -110)
	require.NoError(t, repo.Create(ctx, open))

	due, err := repo.GetExpiredActive(ctx, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, expired.ID, due[0].ID)
}

func TestBetRepository_UpdateStatus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	t.Run("settles an active bet", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "settleme", false)
		require.NoError(t, err)
		admin, err := userRepo.Create(ctx, "settler", true)
		require.NoError(t, err)
		ref := createMarket(t, testDB, testutil.CreateTestMoneylineMarket(-150, 130))

		bet := testutil.CreateTestBet(user.ID, ref, 100, -150)
		require.NoError(t, repo.Create(ctx, bet))

		now := time.Now().UTC()
		bet.Status = entities.BetStatusWon
		bet.SettledAt = &now
		bet.SettledByAdminID = &admin.ID
		bet.SettlementNotes = "final score 3-1"
		require.NoError(t, repo.UpdateStatus(ctx, bet))

		got, err := repo.GetByID(ctx, bet.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.BetStatusWon, got.Status)
		require.NotNil(t, got.SettledAt)
		require.NotNil(t, got.SettledByAdminID)
		assert.Equal(t, admin.ID, *got.SettledByAdminID)
		assert.Equal(t, "final score 3-1", got.SettlementNotes)
	})

	t.Run("second settlement affects zero rows", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "racer", false)
		require.NoError(t, err)
		ref := createMarket(t, testDB, testutil.CreateTestMoneylineMarket(-150, 130))

		bet := testutil.CreateTestBet(user.ID, ref, 100, -150)
		require.NoError(t, repo.Create(ctx, bet))

		now := time.Now().UTC()
		bet.Status = entities.BetStatusLost
		bet.SettledAt = &now
		require.NoError(t, repo.UpdateStatus(ctx, bet))

		bet.Status = entities.BetStatusWon
		err = repo.UpdateStatus(ctx, bet)
		assert.ErrorIs(t, err, entities.ErrBetNotActive)

		// First outcome stands
		got, err := repo.GetByID(ctx, bet.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.BetStatusLost, got.Status)
	})
}

func TestBetRepository_GetStats(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no bets", func(t *testing.T) {
		stats, err := repo.GetStats(ctx, 999999)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalBets)
		assert.Equal(t, int64(0), stats.TotalStaked)
	})

	t.Run("aggregates by status", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "statsuser", false)
		require.NoError(t, err)
		ref := createMarket(t, testDB, testutil.CreateTestMoneylineMarket(-150, 130))

		now := time.Now().UTC()
		settle := func(bet *entities.Bet, status entities.BetStatus) {
			bet.Status = status
			bet.SettledAt = &now
			require.NoError(t, repo.UpdateStatus(ctx, bet))
		}

		won := testutil.CreateTestBet(user.ID, ref, 100, -150)
		require.NoError(t, repo.Create(ctx, won))
		settle(won, entities.BetStatusWon)

		lost := testutil.CreateTestBet(user.ID, ref, 50, -150)
		require.NoError(t, repo.Create(ctx, lost))
		settle(lost, entities.BetStatusLost)

		active := testutil.CreateTestBet(user.ID, ref, 25, -150)
		require.NoError(t, repo.Create(ctx, active))

		stats, err := repo.GetStats(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalBets)
		assert.Equal(t, 1, stats.ActiveBets)
		assert.Equal(t, 1, stats.TotalWins)
		assert.Equal(t, 1, stats.TotalLosses)
		assert.Equal(t, int64(175), stats.TotalStaked)
		assert.Equal(t, int64(200), stats.TotalPayouts)
	})
}
