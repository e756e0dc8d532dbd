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

package reconcile

import (
	"context"
	"errors"
	"fmt"

	"wallet-sync-go/internal/chain"
	"wallet-sync-go/internal/models"
	"wallet-sync-go/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service drives the per-asset fetch -> normalize -> dedup -> persist
// pipeline for one user and aggregates the results. A run only fails when
// the initial read-only snapshots cannot be loaded; every per-asset failure
// is captured in that asset's SyncResult instead.
type Service struct {
	store    store.SyncStore
	fetchers map[models.ChainType]chain.Fetcher
}

func NewService(st store.SyncStore, fetchers map[models.ChainType]chain.Fetcher) *Service {
	return &Service{store: st, fetchers: fetchers}
}

// Run reconciles on-chain activity for the user under the given network
// mode and returns the aggregate report. Assets are processed sequentially:
// each asset's fetch may itself be a multi-call sequence, and there is no
// retry policy — a failed fetch is reported and retried naturally on the
// next invocation.
func (s *Service) Run(ctx context.Context, userId, network string) (*models.SyncReport, error) {
	zap.L().Info("Starting transaction sync",
		zap.String("user_id", userId),
		zap.String("network", network))

	var (
		wallets      []models.WalletAddress
		assets       []models.TrackedAsset
		endpoints    []models.RpcEndpoint
		existingKeys []store.TransactionKey
	)

	// The three read-only snapshots plus the dedup seed are loaded once and
	// stay immutable for the whole invocation.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wallets, err = s.store.GetWalletAddresses(gctx, userId)
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = s.store.GetTrackedAssets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		endpoints, err = s.store.GetRpcEndpoints(gctx, network)
		return err
	})
	g.Go(func() error {
		var err error
		existingKeys, err = s.store.ReadExistingKeys(gctx, userId)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load sync snapshots: %w", err)
	}

	walletByChainType := make(map[models.ChainType]models.WalletAddress, len(wallets))
	for _, w := range wallets {
		walletByChainType[w.ChainType] = w
	}
	directory := newEndpointDirectory(endpoints)
	dedup := newDedupFilter(existingKeys)

	report := &models.SyncReport{}
	for _, asset := range assets {
		wallet, ok := walletByChainType[asset.ChainType]
		if !ok {
			continue
		}
		result := s.syncAsset(ctx, userId, asset, wallet.Address, directory, dedup)
		report.Results = append(report.Results, result)
		report.TotalFetched += result.FetchedCount
		report.TotalRecorded += result.RecordedCount
	}

	zap.L().Info("Transaction sync finished",
		zap.String("user_id", userId),
		zap.Int("assets", len(report.Results)),
		zap.Int("total_fetched", report.TotalFetched),
		zap.Int("total_recorded", report.TotalRecorded))
	return report, nil
}

func (s *Service) syncAsset(ctx context.Context, userId string, asset models.TrackedAsset, walletAddress string, directory *endpointDirectory, dedup *dedupFilter) models.SyncResult {
	result := models.SyncResult{Chain: asset.Chain, Asset: asset.Symbol}

	endpointURL, ok := directory.resolve(asset.ChainType, asset.Chain)
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("No RPC endpoint configured for %s", asset.Chain))
		return result
	}

	fetcher, ok := s.fetchers[asset.ChainType]
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("No fetcher registered for chain type %s", asset.ChainType))
		return result
	}

	// Best-effort: a fetch error still leaves the already-retrieved records
	// to normalize and persist.
	rawRecords, err := fetcher.FetchRawActivity(ctx, asset, walletAddress, endpointURL)
	if err != nil {
		zap.L().Warn("Fetch failed",
			zap.String("user_id", userId),
			zap.String("chain", asset.Chain),
			zap.String("asset", asset.Symbol),
			zap.Error(err))
		result.Errors = append(result.Errors, err.Error())
	}
	result.FetchedCount = len(rawRecords)

	for _, raw := range rawRecords {
		tx := raw.Normalize(asset, walletAddress)
		if tx == nil {
			// Unattributable or malformed record: silent skip, not an error.
			continue
		}

		key := dedupKey(tx.TxHash, tx.AssetSymbol)
		if dedup.contains(key) {
			continue
		}

		if err := s.store.InsertTransaction(ctx, userId, tx); err != nil {
			if errors.Is(err, store.ErrDuplicateTransaction) {
				// A concurrent sync won the insert; success either way.
				dedup.add(key)
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("persist %s: %v", tx.TxHash, err))
			continue
		}
		dedup.add(key)
		result.RecordedCount++
	}

	return result
}

// endpointDirectory resolves one URL per (chain type, chain name): a
// chain-name-specific entry beats a chain-type default, and within a tier
// the lowest priority number wins.
type endpointDirectory struct {
	endpoints []models.RpcEndpoint
}

func newEndpointDirectory(endpoints []models.RpcEndpoint) *endpointDirectory {
	return &endpointDirectory{endpoints: endpoints}
}

func (d *endpointDirectory) resolve(chainType models.ChainType, chainName string) (string, bool) {
	var best *models.RpcEndpoint
	for i := range d.endpoints {
		e := &d.endpoints[i]
		if e.ChainType != chainType {
			continue
		}
		if e.ChainName != "" && e.ChainName != chainName {
			continue
		}
		if best == nil || betterEndpoint(e, best) {
			best = e
		}
	}
	if best == nil {
		return "", false
	}
	return best.URL, true
}

func betterEndpoint(candidate, current *models.RpcEndpoint) bool {
	// Name-specific entries outrank chain-type defaults.
	if (candidate.ChainName != "") != (current.ChainName != "") {
		return candidate.ChainName != ""
	}
	return candidate.Priority < current.Priority
}
