package database

import (
	"context"
	"database/sql"
	"fmt"

	"wallet-sync-go/internal/models"
	"wallet-sync-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InsertTransaction persists one normalized transaction for the user.
// The insert is idempotent on (user_id, tx_hash, asset_symbol): a conflict
// returns store.ErrDuplicateTransaction, which callers treat as success so
// overlapping syncs never double-record or error.
func (s *Service) InsertTransaction(ctx context.Context, userId string, tx *models.NormalizedTransaction) error {
	var blockTimestamp interface{}
	if !tx.BlockTimestamp.IsZero() {
		blockTimestamp = tx.BlockTimestamp.UTC()
	}

	result, err := s.db.ExecContext(ctx, queryInsertTransaction,
		uuid.New().String(), userId, tx.TxHash, tx.Direction, tx.Status,
		tx.AssetSymbol, tx.Chain, tx.Amount, tx.FromAddress, tx.ToAddress,
		tx.BlockNumber, blockTimestamp, tx.Fee, tx.FeeAsset)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", tx.TxHash, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		zap.L().Debug("Transaction already recorded, skipping",
			zap.String("user_id", userId),
			zap.String("tx_hash", tx.TxHash),
			zap.String("asset", tx.AssetSymbol))
		return fmt.Errorf("%w: %s/%s", store.ErrDuplicateTransaction, tx.TxHash, tx.AssetSymbol)
	}

	zap.L().Info("Transaction recorded",
		zap.String("user_id", userId),
		zap.String("tx_hash", tx.TxHash),
		zap.String("asset", tx.AssetSymbol),
		zap.String("chain", tx.Chain),
		zap.String("direction", string(tx.Direction)),
		zap.String("amount", tx.Amount))
	return nil
}

// ReadExistingKeys returns the (tx hash, asset symbol) pairs already
// recorded for the user.
func (s *Service) ReadExistingKeys(ctx context.Context, userId string) ([]store.TransactionKey, error) {
	rows, err := s.db.QueryContext(ctx, queryReadExistingKeys, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing transaction keys: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var keys []store.TransactionKey
	for rows.Next() {
		var k store.TransactionKey
		if err := rows.Scan(&k.TxHash, &k.AssetSymbol); err != nil {
			return nil, fmt.Errorf("failed to scan transaction key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction key rows: %w", err)
	}

	return keys, nil
}

// GetTransactionHistory returns paginated recorded transactions for a user,
// optionally filtered to one asset symbol.
func (s *Service) GetTransactionHistory(ctx context.Context, userId, asset string, limit, offset int) ([]models.WalletTransaction, error) {
	rows, err := s.db.QueryContext(ctx, queryGetTransactionHistory, userId, asset, asset, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var transactions []models.WalletTransaction
	for rows.Next() {
		var tx models.WalletTransaction
		var blockTimestamp sql.NullTime
		if err := rows.Scan(&tx.Id, &tx.UserId, &tx.TxHash, &tx.Direction, &tx.Status,
			&tx.AssetSymbol, &tx.Chain, &tx.Amount, &tx.FromAddress, &tx.ToAddress,
			&tx.BlockNumber, &blockTimestamp, &tx.Fee, &tx.FeeAsset, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if blockTimestamp.Valid {
			tx.BlockTimestamp = blockTimestamp.Time
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during transaction row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}
