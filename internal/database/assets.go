package database

import (
	"context"
	"database/sql"
	"fmt"

	"wallet-sync-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetTrackedAssets returns the enabled asset snapshot for a run.
func (s *Service) GetTrackedAssets(ctx context.Context) ([]models.TrackedAsset, error) {
	rows, err := s.db.QueryContext(ctx, queryGetTrackedAssets)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked assets: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var assets []models.TrackedAsset
	for rows.Next() {
		var a models.TrackedAsset
		if err := rows.Scan(&a.Id, &a.Symbol, &a.Name, &a.Chain, &a.ChainType,
			&a.ContractAddress, &a.Decimals, &a.IsNative); err != nil {
			return nil, fmt.Errorf("failed to scan tracked asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked asset rows: %w", err)
	}

	return assets, nil
}

// StoreTrackedAsset upserts an asset definition, keyed on (symbol, chain).
func (s *Service) StoreTrackedAsset(ctx context.Context, asset models.TrackedAsset) error {
	_, err := s.db.ExecContext(ctx, queryInsertTrackedAsset,
		uuid.New().String(), asset.Symbol, asset.Name, asset.Chain, asset.ChainType,
		asset.ContractAddress, asset.Decimals, asset.IsNative)
	if err != nil {
		return fmt.Errorf("failed to store tracked asset %s/%s: %w", asset.Symbol, asset.Chain, err)
	}
	return nil
}
