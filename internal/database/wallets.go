package database

import (
	"context"
	"database/sql"
	"fmt"

	"wallet-sync-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetWalletAddresses returns the user's per-chain-type addresses.
func (s *Service) GetWalletAddresses(ctx context.Context, userId string) ([]models.WalletAddress, error) {
	rows, err := s.db.QueryContext(ctx, queryGetWalletAddresses, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet addresses: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var addresses []models.WalletAddress
	for rows.Next() {
		var a models.WalletAddress
		if err := rows.Scan(&a.Id, &a.UserId, &a.ChainType, &a.Address, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet address rows: %w", err)
	}

	return addresses, nil
}

// StoreWalletAddress records (or replaces) the user's address for a chain type.
func (s *Service) StoreWalletAddress(ctx context.Context, userId string, chainType models.ChainType, address string) error {
	_, err := s.db.ExecContext(ctx, queryInsertWalletAddress, uuid.New().String(), userId, chainType, address)
	if err != nil {
		return fmt.Errorf("failed to store wallet address: %w", err)
	}
	return nil
}
