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

// TronFetcher pulls recent transfers from the TronGrid-style REST API:
// the TRC20 endpoint when the asset has a contract address, the native
// transaction list otherwise.
type TronFetcher struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewTronFetcher(httpClient *http.Client, timeout time.Duration) *TronFetcher {
	return &TronFetcher{httpClient: httpClient, timeout: timeout}
}

func (f *TronFetcher) FetchRawActivity(ctx context.Context, asset models.TrackedAsset, address, endpointURL string) ([]RawActivity, error) {
	base := strings.TrimRight(endpointURL, "/")

	if asset.ContractAddress != "" {
		reqURL := fmt.Sprintf("%s/v1/accounts/%s/transactions/trc20?limit=%d&contract_address=%s",
			base, url.PathEscape(address), recentTxLimit, url.QueryEscape(asset.ContractAddress))

		var resp struct {
			Data []tronTRC20Transfer `json:"data"`
		}
		if err := getJSON(ctx, f.httpClient, f.timeout, reqURL, &resp); err != nil {
			return nil, fmt.Errorf("trc20 transfers: %w", err)
		}

		records := make([]RawActivity, 0, len(resp.Data))
		for i := range resp.Data {
			records = append(records, &resp.Data[i])
		}
		return records, nil
	}

	reqURL := fmt.Sprintf("%s/v1/accounts/%s/transactions?limit=%d",
		base, url.PathEscape(address), recentTxLimit)

	var resp struct {
		Data []tronNativeTx `json:"data"`
	}
	if err := getJSON(ctx, f.httpClient, f.timeout, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("native transfers: %w", err)
	}

	records := make([]RawActivity, 0, len(resp.Data))
	for i := range resp.Data {
		records = append(records, &resp.Data[i])
	}
	return records, nil
}

// tronTRC20Transfer is one record from /v1/accounts/{addr}/transactions/trc20.
type tronTRC20Transfer struct {
	TransactionID  string `json:"transaction_id"`
	From           string `json:"from"`
	To             string `json:"to"`
	Value          string `json:"value"`
	BlockTimestamp int64  `json:"block_timestamp"`
}

// Normalize compares from/to against the wallet address case-insensitively.
// A transfer between two of the user's own addresses on the same chain can
// be misclassified; this is documented approximate behavior.
func (r *tronTRC20Transfer) Normalize(asset models.TrackedAsset, walletAddress string) *models.NormalizedTransaction {
	value, ok := parseRawAmount(r.Value)
	if !ok || r.TransactionID == "" {
		return nil
	}

	var direction models.Direction
	switch {
	case strings.EqualFold(r.From, walletAddress):
		direction = models.DirectionSend
	case strings.EqualFold(r.To, walletAddress):
		direction = models.DirectionReceive
	default:
		return nil
	}

	return &models.NormalizedTransaction{
		TxHash:         r.TransactionID,
		Direction:      direction,
		Status:         models.StatusConfirmed,
		AssetSymbol:    asset.Symbol,
		Chain:          asset.Chain,
		Amount:         formatUnits(value, asset.Decimals),
		FromAddress:    r.From,
		ToAddress:      r.To,
		BlockTimestamp: millisToTime(r.BlockTimestamp),
	}
}

// tronNativeTx is one record from /v1/accounts/{addr}/transactions. Only
// TransferContract entries carry a plain TRX transfer.
type tronNativeTx struct {
	TxID           string `json:"txID"`
	BlockTimestamp int64  `json:"block_timestamp"`
	Ret            []struct {
		ContractRet string `json:"contractRet"`
	} `json:"ret"`
	RawData struct {
		Contract []struct {
			Type      string `json:"type"`
			Parameter struct {
				Value struct {
					Amount       int64  `json:"amount"`
					OwnerAddress string `json:"owner_address"`
					ToAddress    string `json:"to_address"`
				} `json:"value"`
			} `json:"parameter"`
		} `json:"contract"`
	} `json:"raw_data"`
}

func (r *tronNativeTx) Normalize(asset models.TrackedAsset, walletAddress string) *models.NormalizedTransaction {
	if r.TxID == "" || len(r.RawData.Contract) == 0 {
		return nil
	}
	contract := r.RawData.Contract[0]
	if contract.Type != "TransferContract" {
		return nil
	}
	transfer := contract.Parameter.Value

	var direction models.Direction
	switch {
	case strings.EqualFold(transfer.OwnerAddress, walletAddress):
		direction = models.DirectionSend
	case strings.EqualFold(transfer.ToAddress, walletAddress):
		direction = models.DirectionReceive
	default:
		return nil
	}

	status := models.StatusConfirmed
	if len(r.Ret) > 0 && r.Ret[0].ContractRet != "" && r.Ret[0].ContractRet != "SUCCESS" {
		status = models.StatusFailed
	}

	return &models.NormalizedTransaction{
		TxHash:         r.TxID,
		Direction:      direction,
		Status:         status,
		AssetSymbol:    asset.Symbol,
		Chain:          asset.Chain,
		Amount:         formatUnitsInt(transfer.Amount, asset.Decimals),
		FromAddress:    transfer.OwnerAddress,
		ToAddress:      transfer.ToAddress,
		BlockTimestamp: millisToTime(r.BlockTimestamp),
	}
}

func millisToTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
