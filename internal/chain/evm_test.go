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
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"wallet-sync-go/internal/models"
)

var usdcEVMAsset = models.TrackedAsset{
	Symbol:          "USDC",
	Name:            "USD Coin",
	Chain:           "ethereum",
	ChainType:       models.ChainTypeEVM,
	ContractAddress: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
	Decimals:        6,
}

const (
	evmWallet = "0x00000000000000000000000000000000deadbeef"
	evmPeer   = "0x00000000000000000000000000000000cafebabe"
)

func transferLog(from, to string, amount int64, blockNumber uint64) types.Log {
	return types.Log{
		Address: ethcommon.HexToAddress(usdcEVMAsset.ContractAddress),
		Topics: []ethcommon.Hash{
			erc20TransferTopic,
			addressTopic(from),
			addressTopic(to),
		},
		Data:        ethcommon.LeftPadBytes(new(big.Int).SetInt64(amount).Bytes(), 32),
		BlockNumber: blockNumber,
		TxHash:      ethcommon.HexToHash("0x01"),
	}
}

func TestEVMNormalize_TransferLog(t *testing.T) {
	raw := &evmTransferLog{
		log:       transferLog(evmPeer, evmWallet, 1000000, 9500),
		direction: models.DirectionReceive,
	}

	got := raw.Normalize(usdcEVMAsset, evmWallet)
	if got == nil {
		t.Fatal("expected a normalized transaction, got nil")
	}
	if got.Amount != "1.000000" {
		t.Errorf("amount = %s, want 1.000000", got.Amount)
	}
	if got.Direction != models.DirectionReceive {
		t.Errorf("direction = %s, want receive", got.Direction)
	}
	if got.FromAddress != evmPeer {
		t.Errorf("from = %s, want lowercase %s", got.FromAddress, evmPeer)
	}
	if got.ToAddress != evmWallet {
		t.Errorf("to = %s, want lowercase %s", got.ToAddress, evmWallet)
	}
	if got.BlockNumber != 9500 {
		t.Errorf("block number = %d, want 9500", got.BlockNumber)
	}
}

func TestEVMNormalize_RemovedAndMalformedLogsSkipped(t *testing.T) {
	removed := transferLog(evmPeer, evmWallet, 100, 9500)
	removed.Removed = true
	if got := (&evmTransferLog{log: removed, direction: models.DirectionReceive}).Normalize(usdcEVMAsset, evmWallet); got != nil {
		t.Errorf("expected nil for removed log, got %+v", got)
	}

	short := transferLog(evmPeer, evmWallet, 100, 9500)
	short.Topics = short.Topics[:2]
	if got := (&evmTransferLog{log: short, direction: models.DirectionReceive}).Normalize(usdcEVMAsset, evmWallet); got != nil {
		t.Errorf("expected nil for log with missing indexed topics, got %+v", got)
	}
}

func TestEVMFetch_NativeAssetSkipped(t *testing.T) {
	fetcher := NewEVMFetcher(5 * time.Second)
	native := models.TrackedAsset{Symbol: "ETH", Chain: "ethereum", ChainType: models.ChainTypeEVM, Decimals: 18, IsNative: true}

	records, err := fetcher.FetchRawActivity(context.Background(), native, evmWallet, "http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("expected native asset to be skipped without dialing, got %v", err)
	}
	if records != nil {
		t.Errorf("expected no records, got %d", len(records))
	}
}

// End to end over a stub JSON-RPC node: eth_blockNumber then two
// eth_getLogs queries, one per transfer direction.
func TestEVMFetch_TransferLogQueries(t *testing.T) {
	var logQueries []evmFilterArg

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var result any
		switch req.Method {
		case "eth_blockNumber":
			result = "0x2710" // height 10000
		case "eth_getLogs":
			var arg evmFilterArg
			if err := json.Unmarshal(req.Params[0], &arg); err != nil {
				t.Errorf("decode filter arg: %v", err)
			}
			logQueries = append(logQueries, arg)
			if len(arg.Topics) == 3 {
				// Incoming query: Transfer(*, wallet).
				result = []map[string]any{{
					"address":          usdcEVMAsset.ContractAddress,
					"topics":           []string{erc20TransferTopic.Hex(), addressTopic(evmPeer).Hex(), addressTopic(evmWallet).Hex()},
					"data":             "0x00000000000000000000000000000000000000000000000000000000000f4240",
					"blockNumber":      "0x251c",
					"transactionHash":  ethcommon.HexToHash("0x01").Hex(),
					"transactionIndex": "0x0",
					"blockHash":        ethcommon.HexToHash("0x02").Hex(),
					"logIndex":         "0x0",
					"removed":          false,
				}}
			} else {
				result = []map[string]any{}
			}
		default:
			t.Errorf("unexpected rpc method %s", req.Method)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	defer server.Close()

	fetcher := NewEVMFetcher(5 * time.Second)
	records, err := fetcher.FetchRawActivity(context.Background(), usdcEVMAsset, evmWallet, server.URL)
	if err != nil {
		t.Fatalf("FetchRawActivity failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if len(logQueries) != 2 {
		t.Fatalf("expected 2 eth_getLogs queries, got %d", len(logQueries))
	}
	// Height 10000 is above the range cap, so both queries start at
	// height - 9000.
	for _, q := range logQueries {
		if q.FromBlock != "0x3e8" {
			t.Errorf("fromBlock = %s, want 0x3e8", q.FromBlock)
		}
	}
	incoming, outgoing := logQueries[0], logQueries[1]
	if len(incoming.Topics) != 3 || incoming.Topics[1] != nil {
		t.Errorf("incoming query should leave the from topic open: %+v", incoming.Topics)
	}
	if len(outgoing.Topics) != 2 {
		t.Errorf("outgoing query should pin the from topic: %+v", outgoing.Topics)
	}

	tx := records[0].Normalize(usdcEVMAsset, evmWallet)
	if tx == nil {
		t.Fatal("expected a normalized transaction")
	}
	if tx.Amount != "1.000000" {
		t.Errorf("amount = %s, want 1.000000", tx.Amount)
	}
	if tx.Direction != models.DirectionReceive {
		t.Errorf("direction = %s, want receive", tx.Direction)
	}
	if tx.ToAddress != evmWallet {
		t.Errorf("to = %s, want %s", tx.ToAddress, evmWallet)
	}
}

// evmFilterArg mirrors the eth_getLogs parameter object.
type evmFilterArg struct {
	FromBlock string      `json:"fromBlock"`
	ToBlock   string      `json:"toBlock"`
	Address   interface{} `json:"address"`
	Topics    [][]string  `json:"topics"`
}
