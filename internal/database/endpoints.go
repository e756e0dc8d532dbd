package database

import (
	"context"
	"database/sql"
	"fmt"

	"wallet-sync-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetRpcEndpoints returns every configured endpoint for the network mode.
// Resolution (name-specific over type-default, lowest priority wins) is
// done by the caller against the full snapshot.
func (s *Service) GetRpcEndpoints(ctx context.Context, network string) ([]models.RpcEndpoint, error) {
	rows, err := s.db.QueryContext(ctx, queryGetRpcEndpoints, network)
	if err != nil {
		return nil, fmt.Errorf("failed to query rpc endpoints: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var endpoints []models.RpcEndpoint
	for rows.Next() {
		var e models.RpcEndpoint
		if err := rows.Scan(&e.Id, &e.ChainType, &e.ChainName, &e.Network, &e.URL, &e.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan rpc endpoint: %w", err)
		}
		endpoints = append(endpoints, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rpc endpoint rows: %w", err)
	}

	return endpoints, nil
}

// StoreRpcEndpoint upserts one prioritized endpoint entry.
func (s *Service) StoreRpcEndpoint(ctx context.Context, endpoint models.RpcEndpoint) error {
	_, err := s.db.ExecContext(ctx, queryInsertRpcEndpoint,
		uuid.New().String(), endpoint.ChainType, endpoint.ChainName,
		endpoint.Network, endpoint.URL, endpoint.Priority)
	if err != nil {
		return fmt.Errorf("failed to store rpc endpoint for %s: %w", endpoint.ChainType, err)
	}
	return nil
}
