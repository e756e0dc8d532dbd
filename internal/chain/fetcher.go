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

package chain

import (
	"context"

	"wallet-sync-go/internal/models"
)

// recentTxLimit caps how many recent records each fetcher pulls per asset.
const recentTxLimit = 20

// RawActivity is one opaque, chain-specific activity record. Normalize maps
// it into the canonical transaction shape, or returns nil when the record
// cannot be attributed to the wallet (zero balance delta, malformed payload).
// A nil result is a silent skip, never an error.
type RawActivity interface {
	Normalize(asset models.TrackedAsset, walletAddress string) *models.NormalizedTransaction
}

// Fetcher pulls raw activity for one asset from one endpoint, best-effort:
// on a transport error it returns whatever was already retrieved (possibly
// nothing) together with the error. The caller records the failure; partial
// results are still processed.
type Fetcher interface {
	FetchRawActivity(ctx context.Context, asset models.TrackedAsset, address, endpointURL string) ([]RawActivity, error)
}

// NewFetcherRegistry builds the fetcher lookup table, one entry per chain
// type. Orchestration selects from it by the asset's chain type.
func NewFetcherRegistry(cfg models.SyncConfig) map[models.ChainType]Fetcher {
	httpClient := newHTTPClient(cfg.RPCTimeout)
	return map[models.ChainType]Fetcher{
		models.ChainTypeEVM:  NewEVMFetcher(cfg.RPCTimeout),
		models.ChainTypeSVM:  NewSolanaFetcher(httpClient, cfg.RPCTimeout),
		models.ChainTypeTron: NewTronFetcher(httpClient, cfg.RPCTimeout),
		models.ChainTypeTon:  NewTonFetcher(httpClient, cfg.RPCTimeout),
		models.ChainTypeBTC:  NewBTCFetcher(httpClient, cfg.RPCTimeout),
	}
}
