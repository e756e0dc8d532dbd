package chain

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wallet-sync-go/internal/models"
)

// TonFetcher pulls recent transactions from a toncenter-style REST API.
type TonFetcher struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewTonFetcher(httpClient *http.Client, timeout time.Duration) *TonFetcher {
	return &TonFetcher{httpClient: httpClient, timeout: timeout}
}

func (f *TonFetcher) FetchRawActivity(ctx context.Context, asset models.TrackedAsset, address, endpointURL string) ([]RawActivity, error) {
	reqURL := fmt.Sprintf("%s/getTransactions?address=%s&limit=%d",
		strings.TrimRight(endpointURL, "/"), url.QueryEscape(address), recentTxLimit)

	var resp struct {
		OK     bool             `json:"ok"`
		Result []tonTransaction `json:"result"`
	}
	if err := getJSON(ctx, f.httpClient, f.timeout, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("getTransactions: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("getTransactions: upstream returned ok=false")
	}

	records := make([]RawActivity, 0, len(resp.Result))
	for i := range resp.Result {
		records = append(records, &resp.Result[i])
	}
	return records, nil
}

type tonTransaction struct {
	TransactionID struct {
		Hash string `json:"hash"`
		LT   string `json:"lt"`
	} `json:"transaction_id"`
	Utime   int64        `json:"utime"`
	Fee     string       `json:"fee"`
	InMsg   *tonMessage  `json:"in_msg"`
	OutMsgs []tonMessage `json:"out_msgs"`
}

type tonMessage struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Value       string `json:"value"`
}

// Normalize treats a transaction with outbound messages as a send and one
// with a sourced inbound message as a receive. Amounts are integer
// nano-units scaled by the asset's decimals.
func (r *tonTransaction) Normalize(asset models.TrackedAsset, walletAddress string) *models.NormalizedTransaction {
	if r.TransactionID.Hash == "" {
		return nil
	}

	tx := &models.NormalizedTransaction{
		TxHash:      r.TransactionID.Hash,
		Status:      models.StatusConfirmed,
		AssetSymbol: asset.Symbol,
		Chain:       asset.Chain,
	}
	if r.Utime > 0 {
		tx.BlockTimestamp = time.Unix(r.Utime, 0).UTC()
	}

	if len(r.OutMsgs) > 0 {
		total := new(big.Int)
		for _, msg := range r.OutMsgs {
			if v, ok := parseRawAmount(msg.Value); ok {
				total.Add(total, v)
			}
		}
		tx.Direction = models.DirectionSend
		tx.Amount = formatUnits(total, asset.Decimals)
		tx.FromAddress = walletAddress
		tx.ToAddress = r.OutMsgs[0].Destination
		if fee, ok := parseRawAmount(r.Fee); ok && fee.Sign() > 0 {
			tx.Fee = formatUnits(fee, asset.Decimals)
			tx.FeeAsset = "TON"
		}
		return tx
	}

	if r.InMsg != nil && r.InMsg.Source != "" {
		value, ok := parseRawAmount(r.InMsg.Value)
		if !ok {
			return nil
		}
		tx.Direction = models.DirectionReceive
		tx.Amount = formatUnits(value, asset.Decimals)
		tx.FromAddress = r.InMsg.Source
		tx.ToAddress = walletAddress
		return tx
	}

	// Neither outbound messages nor a sourced inbound message; cannot be
	// attributed to the wallet.
	return nil
}
