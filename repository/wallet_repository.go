package repository

import (
	"context"
	"fmt"

	"fantasyleague/database"
	"fantasyleague/domain/entities"
	"fantasyleague/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type walletRepository struct {
	q Queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) interfaces.WalletRepository {
	return &walletRepository{q: db.Pool}
}

// newWalletRepositoryWithTx creates a new wallet repository with a transaction
func newWalletRepositoryWithTx(tx Queryable) interfaces.WalletRepository {
	return &walletRepository{q: tx}
}

// GetByUserID locks the wallet row for the duration of the surrounding
// transaction so concurrent spends of the same wallet serialize instead of
// double-spending.
func (r *walletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	query := `
		SELECT user_id, available_balance, pending_balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE`

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.AvailableBalance,
		&wallet.PendingBalance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return &wallet, nil
}

func (r *walletRepository) Create(ctx context.Context, userID int64) (*entities.Wallet, error) {
	query := `
		INSERT INTO wallets (user_id, available_balance, pending_balance)
		VALUES ($1, 0, 0)
		RETURNING user_id, available_balance, pending_balance, created_at, updated_at`

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.AvailableBalance,
		&wallet.PendingBalance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return &wallet, nil
}

func (r *walletRepository) UpdateBalances(ctx context.Context, userID, available, pending int64) error {
	query := `
		UPDATE wallets
		SET available_balance = $2, pending_balance = $3, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1`

	tag, err := r.q.Exec(ctx, query, userID, available, pending)
	if err != nil {
		return fmt.Errorf("failed to update wallet balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrWalletNotFound
	}

	return nil
}
