package repository

import (
	"context"
	"fmt"
	"testing"

	"fantasyleague/domain/entities"
	"fantasyleague/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEntryRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewLedgerEntryRepository(testDB.DB)
	ctx := context.Background()

	t.Run("assigns id and timestamp", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "ledgeruser", false)
		require.NoError(t, err)

		entry := testutil.CreateTestLedgerEntry(user.ID, 500, 0)
		err = repo.Record(ctx, entry)
		require.NoError(t, err)

		assert.NotZero(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("admin attribution round-trips", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "adjusted", false)
		require.NoError(t, err)
		admin, err := userRepo.Create(ctx, "theadmin", true)
		require.NoError(t, err)

		entry := testutil.CreateTestLedgerEntry(user.ID, 200, 0)
		entry.Kind = entities.EntryKindAdminCredit
		entry.Description = "goodwill grant"
		entry.ProcessedByAdminID = &admin.ID
		require.NoError(t, repo.Record(ctx, entry))

		entries, err := repo.GetByUser(ctx, user.ID, 1, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entities.EntryKindAdminCredit, entries[0].Kind)
		require.NotNil(t, entries[0].ProcessedByAdminID)
		assert.Equal(t, admin.ID, *entries[0].ProcessedByAdminID)
	})

	t.Run("zero amount rejected by schema", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "zeroamount", false)
		require.NoError(t, err)

		entry := testutil.CreateTestLedgerEntry(user.ID, 100, 0)
		entry.Amount = 0
		err = repo.Record(ctx, entry)
		assert.Error(t, err)
	})
}

func TestLedgerEntryRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewLedgerEntryRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no entries", func(t *testing.T) {
		entries, err := repo.GetByUser(ctx, 999999, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("newest first with paging", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "pageduser", false)
		require.NoError(t, err)

		balance := int64(0)
		var ids []int64
		for i := 0; i < 5; i++ {
			entry := testutil.CreateTestLedgerEntry(user.ID, 100, balance)
			entry.Description = fmt.Sprintf("purchase %d", i)
			require.NoError(t, repo.Record(ctx, entry))
			balance += 100
			ids = append(ids, entry.ID)
		}

		page1, err := repo.GetByUser(ctx, user.ID, 1, 2)
		require.NoError(t, err)
		require.Len(t, page1, 2)
		assert.Equal(t, ids[4], page1[0].ID)
		assert.Equal(t, ids[3], page1[1].ID)

		page3, err := repo.GetByUser(ctx, user.ID, 3, 2)
		require.NoError(t, err)
		require.Len(t, page3, 1)
		assert.Equal(t, ids[0], page3[0].ID)
	})
}

func TestLedgerEntryRepository_SumAvailableDeltas(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewLedgerEntryRepository(testDB.DB)
	ctx := context.Background()

	record := func(t *testing.T, userID int64, kind entities.EntryKind, amount, before, after int64) {
		t.Helper()
		entry := &entities.LedgerEntry{
			UserID:        userID,
			Kind:          kind,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   string(kind),
			Status:        entities.EntryStatusCompleted,
		}
		require.NoError(t, repo.Record(ctx, entry))
	}

	t.Run("no entries sums to zero", func(t *testing.T) {
		sum, err := repo.SumAvailableDeltas(ctx, 999999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), sum)
	})

	t.Run("signed sum reconstructs the available balance", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "sumuser", false)
		require.NoError(t, err)

		// purchase 1000, place 300, win back 300 + 150, cash out 200,
		// lose a later 100 stake (no available movement)
		record(t, user.ID, entities.EntryKindPurchase, 1000, 0, 1000)
		record(t, user.ID, entities.EntryKindBetPlaced, 300, 1000, 700)
		record(t, user.ID, entities.EntryKindBetWon, 300, 700, 1000)
		record(t, user.ID, entities.EntryKindBetWon, 150, 1000, 1150)
		record(t, user.ID, entities.EntryKindCashoutCompleted, 200, 1150, 950)
		record(t, user.ID, entities.EntryKindBetPlaced, 100, 950, 850)
		record(t, user.ID, entities.EntryKindBetLost, 100, 850, 850)

		sum, err := repo.SumAvailableDeltas(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(850), sum)
	})

	t.Run("failed entries excluded", func(t *testing.T) {
		user, err := userRepo.Create(ctx, "failedsum", false)
		require.NoError(t, err)

		record(t, user.ID, entities.EntryKindPurchase, 500, 0, 500)

		failed := testutil.CreateTestLedgerEntry(user.ID, 100, 500)
		failed.Status = entities.EntryStatusFailed
		require.NoError(t, repo.Record(ctx, failed))

		sum, err := repo.SumAvailableDeltas(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(500), sum)
	})
}
