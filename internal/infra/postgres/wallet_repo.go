package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xrpzip/walletd/internal/wallet"
)

// WalletRepository handles wallet persistence.
type WalletRepository struct {
	pool *pgxpool.Pool
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create inserts a wallet. A duplicate address maps to
// wallet.ErrDuplicateAddress.
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallets (id, address, sealed_seed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, w.ID, w.Address, w.SealedSeed, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return wallet.ErrDuplicateAddress
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// GetByID retrieves a wallet by its UUID.
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `
		SELECT id, address, sealed_seed, created_at, updated_at
		FROM wallets
		WHERE id = $1
	`
	return r.scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetByAddress retrieves a wallet by its classic account address.
func (r *WalletRepository) GetByAddress(ctx context.Context, address string) (*wallet.Wallet, error) {
	query := `
		SELECT id, address, sealed_seed, created_at, updated_at
		FROM wallets
		WHERE address = $1
	`
	return r.scanWallet(r.pool.QueryRow(ctx, query, address))
}

// Delete removes a wallet.
func (r *WalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return wallet.ErrNotFound
	}
	return nil
}

func (r *WalletRepository) scanWallet(row pgx.Row) (*wallet.Wallet, error) {
	var w wallet.Wallet
	err := row.Scan(&w.ID, &w.Address, &w.SealedSeed, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}
	return &w, nil
}

var _ wallet.Repository = (*WalletRepository)(nil)
