/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"fmt"

	"wallet-sync-go/internal/database"
	"wallet-sync-go/internal/models"
	"wallet-sync-go/internal/reconcile"
)

// SyncService is the inbound surface of the reconciliation engine. HTTP
// routing and authentication live outside this module; handlers call these
// methods directly.
type SyncService struct {
	db         *database.Service
	reconciler *reconcile.Service
}

func NewSyncService(db *database.Service, reconciler *reconcile.Service) *SyncService {
	return &SyncService{db: db, reconciler: reconciler}
}

// SyncTransactions runs one reconciliation for the user under the network
// mode and returns the aggregate report.
func (s *SyncService) SyncTransactions(ctx context.Context, userId, network string) (*models.SyncReport, error) {
	if _, err := s.db.GetUserById(ctx, userId); err != nil {
		return nil, err
	}
	return s.reconciler.Run(ctx, userId, network)
}

// GetTransactionHistory returns the user's recorded transactions.
func (s *SyncService) GetTransactionHistory(ctx context.Context, userId, asset string, limit, offset int) ([]models.WalletTransaction, error) {
	return s.db.GetTransactionHistory(ctx, userId, asset, limit, offset)
}

func (s *SyncService) HealthCheck(ctx context.Context) error {
	_, err := s.db.GetUsers(ctx)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
