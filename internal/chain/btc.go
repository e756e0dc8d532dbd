package chain

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wallet-sync-go/internal/models"
)

// BTCFetcher pulls recent transactions from an Esplora-style REST API.
type BTCFetcher struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewBTCFetcher(httpClient *http.Client, timeout time.Duration) *BTCFetcher {
	return &BTCFetcher{httpClient: httpClient, timeout: timeout}
}

func (f *BTCFetcher) FetchRawActivity(ctx context.Context, asset models.TrackedAsset, address, endpointURL string) ([]RawActivity, error) {
	reqURL := fmt.Sprintf("%s/address/%s/txs",
		strings.TrimRight(endpointURL, "/"), url.PathEscape(address))

	var txs []esploraTx
	if err := getJSON(ctx, f.httpClient, f.timeout, reqURL, &txs); err != nil {
		return nil, fmt.Errorf("address txs: %w", err)
	}
	if len(txs) > recentTxLimit {
		txs = txs[:recentTxLimit]
	}

	records := make([]RawActivity, 0, len(txs))
	for i := range txs {
		records = append(records, &txs[i])
	}
	return records, nil
}

type esploraTx struct {
	Txid   string `json:"txid"`
	Fee    int64  `json:"fee"`
	Status struct {
		Confirmed   bool  `json:"confirmed"`
		BlockHeight int64 `json:"block_height"`
		BlockTime   int64 `json:"block_time"`
	} `json:"status"`
	Vin []struct {
		Prevout *esploraOutput `json:"prevout"`
	} `json:"vin"`
	Vout []esploraOutput `json:"vout"`
}

type esploraOutput struct {
	ScriptpubkeyAddress string `json:"scriptpubkey_address"`
	Value               int64  `json:"value"`
}

// Normalize computes the wallet's owned input and output value by address
// match. With both nonzero the net is inputs - outputs - fee and direction
// follows its sign; inputs only is a send of inputs - fee; outputs only is
// a receive of outputs. Multi-input transactions spending several of the
// user's own addresses are approximated, not balance-exact.
func (r *esploraTx) Normalize(asset models.TrackedAsset, walletAddress string) *models.NormalizedTransaction {
	if r.Txid == "" {
		return nil
	}

	var ownedIn, ownedOut int64
	for _, in := range r.Vin {
		if in.Prevout != nil && strings.EqualFold(in.Prevout.ScriptpubkeyAddress, walletAddress) {
			ownedIn += in.Prevout.Value
		}
	}
	for _, out := range r.Vout {
		if strings.EqualFold(out.ScriptpubkeyAddress, walletAddress) {
			ownedOut += out.Value
		}
	}

	var direction models.Direction
	var amount int64
	switch {
	case ownedIn > 0 && ownedOut > 0:
		net := ownedIn - ownedOut - r.Fee
		if net == 0 {
			return nil
		}
		if net > 0 {
			direction = models.DirectionSend
			amount = net
		} else {
			direction = models.DirectionReceive
			amount = -net
		}
	case ownedIn > 0:
		direction = models.DirectionSend
		amount = ownedIn - r.Fee
	case ownedOut > 0:
		direction = models.DirectionReceive
		amount = ownedOut
	default:
		return nil
	}

	status := models.StatusConfirmed
	if !r.Status.Confirmed {
		status = models.StatusPending
	}

	tx := &models.NormalizedTransaction{
		TxHash:      r.Txid,
		Direction:   direction,
		Status:      status,
		AssetSymbol: asset.Symbol,
		Chain:       asset.Chain,
		Amount:      formatUnitsInt(amount, asset.Decimals),
		BlockNumber: r.Status.BlockHeight,
	}
	if r.Status.BlockTime > 0 {
		tx.BlockTimestamp = time.Unix(r.Status.BlockTime, 0).UTC()
	}

	if direction == models.DirectionSend {
		tx.FromAddress = walletAddress
		tx.ToAddress = r.firstForeignOutput(walletAddress)
		if r.Fee > 0 {
			tx.Fee = formatUnitsInt(r.Fee, asset.Decimals)
			tx.FeeAsset = "BTC"
		}
	} else {
		tx.FromAddress = r.firstForeignInput(walletAddress)
		tx.ToAddress = walletAddress
	}
	return tx
}

func (r *esploraTx) firstForeignOutput(walletAddress string) string {
	for _, out := range r.Vout {
		if out.ScriptpubkeyAddress != "" && !strings.EqualFold(out.ScriptpubkeyAddress, walletAddress) {
			return out.ScriptpubkeyAddress
		}
	}
	return ""
}

func (r *esploraTx) firstForeignInput(walletAddress string) string {
	for _, in := range r.Vin {
		if in.Prevout != nil && in.Prevout.ScriptpubkeyAddress != "" &&
			!strings.EqualFold(in.Prevout.ScriptpubkeyAddress, walletAddress) {
			return in.Prevout.ScriptpubkeyAddress
		}
	}
	return ""
}
