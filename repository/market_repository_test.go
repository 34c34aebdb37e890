package repository

import (
	"context"
	"testing"

	"fantasyleague/domain/entities"
	"fantasyleague/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMarketRepository(testDB.DB)
	ctx := context.Background()

	t.Run("market not found", func(t *testing.T) {
		market, err := repo.GetByRef(ctx, entities.MarketRef{Kind: entities.MarketKindGame, ID: 999999})
		require.NoError(t, err)
		assert.Nil(t, market)
	})

	t.Run("moneyline market round trip", func(t *testing.T) {
		market := testutil.CreateTestMoneylineMarket(-150, 130)
		require.NoError(t, repo.Create(ctx, market))
		assert.NotZero(t, market.ID)

		got, err := repo.GetByRef(ctx, entities.MarketRef{Kind: market.Kind, ID: market.ID})
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, entities.MarketKindGame, got.Kind)
		require.NotNil(t, got.HomeMoneyline)
		assert.Equal(t, -150, *got.HomeMoneyline)
		require.NotNil(t, got.AwayMoneyline)
		assert.Equal(t, 130, *got.AwayMoneyline)
		assert.Nil(t, got.SpreadHalfPoints)
		assert.Nil(t, got.TotalHalfPoints)
		assert.False(t, got.IsSettled)
	})

	t.Run("full market keeps all lines", func(t *testing.T) {
		market := testutil.CreateTestFullMarket(-13, 175)
		require.NoError(t, repo.Create(ctx, market))

		got, err := repo.GetByRef(ctx, entities.MarketRef{Kind: market.Kind, ID: market.ID})
		require.NoError(t, err)
		require.NotNil(t, got)

		require.NotNil(t, got.SpreadHalfPoints)
		assert.Equal(t, -13, *got.SpreadHalfPoints)
		require.NotNil(t, got.TotalHalfPoints)
		assert.Equal(t, 175, *got.TotalHalfPoints)
		require.NotNil(t, got.OverOdds)
		assert.Equal(t, -105, *got.OverOdds)
	})

	t.Run("kind must match", func(t *testing.T) {
		market := testutil.CreateTestMoneylineMarket(-150, 130)
		require.NoError(t, repo.Create(ctx, market))

		got, err := repo.GetByRef(ctx, entities.MarketRef{Kind: entities.MarketKindMatchup, ID: market.ID})
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestMarketRepository_RecordResult(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMarketRepository(testDB.DB)
	ctx := context.Background()

	t.Run("records scores once", func(t *testing.T) {
		market := testutil.CreateTestMoneylineMarket(-150, 130)
		require.NoError(t, repo.Create(ctx, market))
		ref := entities.MarketRef{Kind: market.Kind, ID: market.ID}

		require.NoError(t, repo.RecordResult(ctx, ref, 3, 1))

		got, err := repo.GetByRef(ctx, ref)
		require.NoError(t, err)
		assert.True(t, got.IsSettled)
		require.NotNil(t, got.HomeScore)
		assert.Equal(t, 3, *got.HomeScore)
		require.NotNil(t, got.AwayScore)
		assert.Equal(t, 1, *got.AwayScore)
		assert.NotNil(t, got.SettledAt)

		// A second result is refused and the first stands
		err = repo.RecordResult(ctx, ref, 0, 0)
		assert.ErrorIs(t, err, entities.ErrMarketAlreadySettled)

		got, err = repo.GetByRef(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, 3, *got.HomeScore)
	})

	t.Run("unknown market", func(t *testing.T) {
		err := repo.RecordResult(ctx, entities.MarketRef{Kind: entities.MarketKindGame, ID: 999999}, 1, 0)
		assert.ErrorIs(t, err, entities.ErrMarketNotFound)
	})
}

func TestMarketRepository_GetSettledWithActiveBets(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	betRepo := NewBetRepository(testDB.DB)
	repo := NewMarketRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "sweeptarget", false)
	require.NoError(t, err)

	// Settled market with an active bet: picked up by the sweep
	withBets := testutil.CreateTestMoneylineMarket(-150, 130)
	require.NoError(t, repo.Create(ctx, withBets))
	withBetsRef := entities.MarketRef{Kind: withBets.Kind, ID: withBets.ID}
	require.NoError(t, betRepo.Create(ctx, testutil.CreateTestBet(user.ID, withBetsRef, 100, -150)))
	require.NoError(t, repo.RecordResult(ctx, withBetsRef, 2, 0))

	// Settled market with no bets: nothing to sweep
	empty := testutil.CreateTestMoneylineMarket(-110, -110)
	require.NoError(t, repo.Create(ctx, empty))
	require.NoError(t, repo.RecordResult(ctx, entities.MarketRef{Kind: empty.Kind, ID: empty.ID}, 1, 1))

	// Open market with an active bet: not settled yet
	open := testutil.CreateTestMoneylineMarket(-120, 100)
	require.NoError(t, repo.Create(ctx, open))
	openRef := entities.MarketRef{Kind: open.Kind, ID: open.ID}
	require.NoError(t, betRepo.Create(ctx, testutil.CreateTestBet(user.ID, openRef, 50, -120)))

	markets, err := repo.GetSettledWithActiveBets(ctx, 10)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, withBets.ID, markets[0].ID)
}
