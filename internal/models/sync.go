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

package models

import "time"

// ChainType identifies the wire protocol family an asset lives on.
type ChainType string

const (
	ChainTypeEVM  ChainType = "evm"
	ChainTypeSVM  ChainType = "svm"
	ChainTypeTron ChainType = "tron"
	ChainTypeTon  ChainType = "ton"
	ChainTypeBTC  ChainType = "btc"
)

// Direction is always relative to the user's own wallet address for the
// asset's chain, never inferred from global transaction structure.
type Direction string

const (
	DirectionSend    Direction = "send"
	DirectionReceive Direction = "receive"
)

// TxStatus is the confirmation state of a recorded transaction.
type TxStatus string

const (
	StatusPending   TxStatus = "pending"
	StatusConfirmed TxStatus = "confirmed"
	StatusFailed    TxStatus = "failed"
)

// NormalizedTransaction is the canonical, chain-agnostic transaction shape.
// It is transient: created per raw record, then either persisted (new) or
// discarded (duplicate or unparseable).
type NormalizedTransaction struct {
	TxHash      string
	Direction   Direction
	Status      TxStatus
	AssetSymbol string
	Chain       string
	// Amount is a non-negative decimal string already scaled by
	// 10^-decimals (e.g. raw 1000000 with decimals 6 -> "1.000000").
	Amount      string
	FromAddress string
	ToAddress   string
	// BlockNumber is 0 when the chain does not expose one.
	BlockNumber int64
	// BlockTimestamp is the zero time when unknown.
	BlockTimestamp time.Time
	Fee            string
	FeeAsset       string
}

// SyncResult is the per-asset outcome of one reconciliation run.
type SyncResult struct {
	Chain         string   `json:"chain"`
	Asset         string   `json:"asset"`
	FetchedCount  int      `json:"fetchedCount"`
	RecordedCount int      `json:"recordedCount"`
	Errors        []string `json:"errors"`
}

// SyncReport aggregates all SyncResults for one invocation. It is returned
// once to the caller and never persisted.
type SyncReport struct {
	Results       []SyncResult `json:"results"`
	TotalFetched  int          `json:"totalFetched"`
	TotalRecorded int          `json:"totalRecorded"`
}
