package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"wallet-sync-go/internal/models"
)

// SolanaFetcher pulls recent activity for the wallet (or its associated
// token account) over Solana JSON-RPC: getTokenAccountsByOwner,
// getSignaturesForAddress, then getTransaction per signature.
type SolanaFetcher struct {
	httpClient *http.Client
	timeout    time.Duration
	requestID  atomic.Int64
}

func NewSolanaFetcher(httpClient *http.Client, timeout time.Duration) *SolanaFetcher {
	return &SolanaFetcher{httpClient: httpClient, timeout: timeout}
}

func (f *SolanaFetcher) FetchRawActivity(ctx context.Context, asset models.TrackedAsset, address, endpointURL string) ([]RawActivity, error) {
	account := address
	if !asset.IsNative {
		tokenAccount, err := f.resolveTokenAccount(ctx, endpointURL, address, asset.ContractAddress)
		if err != nil {
			return nil, fmt.Errorf("getTokenAccountsByOwner: %w", err)
		}
		if tokenAccount == "" {
			// No associated token account: the owner never held this mint.
			return nil, nil
		}
		account = tokenAccount
	}

	signatures, err := f.getSignatures(ctx, endpointURL, account, recentTxLimit)
	if err != nil {
		return nil, fmt.Errorf("getSignaturesForAddress: %w", err)
	}

	var records []RawActivity
	for _, sig := range signatures {
		detail, err := f.getTransaction(ctx, endpointURL, sig.Signature)
		if err != nil {
			return records, fmt.Errorf("getTransaction %s: %w", sig.Signature, err)
		}
		if detail == nil {
			continue
		}
		records = append(records, &solanaTransaction{signature: sig.Signature, detail: detail})
	}
	return records, nil
}

// --- JSON-RPC plumbing ---

type solanaRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type solanaRPCResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *solanaRPCError `json:"error"`
}

type solanaRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *solanaRPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (f *SolanaFetcher) call(ctx context.Context, endpointURL, method string, params []interface{}) (json.RawMessage, error) {
	req := solanaRPCRequest{
		JSONRPC: "2.0",
		ID:      f.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var rpcResp solanaRPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// resolveTokenAccount returns the first token account the owner holds for
// the mint, or "" when none exists.
func (f *SolanaFetcher) resolveTokenAccount(ctx context.Context, endpointURL, owner, mint string) (string, error) {
	result, err := f.call(ctx, endpointURL, "getTokenAccountsByOwner", []interface{}{
		owner,
		map[string]string{"mint": mint},
		map[string]string{"encoding": "jsonParsed"},
	})
	if err != nil {
		return "", err
	}

	var parsed struct {
		Value []struct {
			Pubkey string `json:"pubkey"`
		} `json:"value"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal token accounts: %w", err)
	}
	if len(parsed.Value) == 0 {
		return "", nil
	}
	return parsed.Value[0].Pubkey, nil
}

type solanaSignatureInfo struct {
	Signature string `json:"signature"`
	Slot      uint64 `json:"slot"`
	BlockTime *int64 `json:"blockTime"`
}

func (f *SolanaFetcher) getSignatures(ctx context.Context, endpointURL, account string, limit int) ([]solanaSignatureInfo, error) {
	result, err := f.call(ctx, endpointURL, "getSignaturesForAddress", []interface{}{
		account,
		map[string]interface{}{"limit": limit, "commitment": "confirmed"},
	})
	if err != nil {
		return nil, err
	}

	var sigs []solanaSignatureInfo
	if err := json.Unmarshal(result, &sigs); err != nil {
		return nil, fmt.Errorf("unmarshal signatures: %w", err)
	}
	return sigs, nil
}

func (f *SolanaFetcher) getTransaction(ctx context.Context, endpointURL, signature string) (*solanaTxDetail, error) {
	result, err := f.call(ctx, endpointURL, "getTransaction", []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"commitment":                     "confirmed",
			"maxSupportedTransactionVersion": 0,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}

	var detail solanaTxDetail
	if err := json.Unmarshal(result, &detail); err != nil {
		return nil, fmt.Errorf("unmarshal transaction: %w", err)
	}
	return &detail, nil
}

// --- parsed transaction shapes (jsonParsed encoding) ---

type solanaTxDetail struct {
	Slot        uint64          `json:"slot"`
	BlockTime   *int64          `json:"blockTime"`
	Meta        *solanaTxMeta   `json:"meta"`
	Transaction solanaTxEnvelope `json:"transaction"`
}

type solanaTxEnvelope struct {
	Message struct {
		AccountKeys []solanaAccountKey `json:"accountKeys"`
	} `json:"message"`
}

type solanaAccountKey struct {
	Pubkey string `json:"pubkey"`
}

type solanaTxMeta struct {
	Err               json.RawMessage      `json:"err"`
	Fee               uint64               `json:"fee"`
	PreBalances       []uint64             `json:"preBalances"`
	PostBalances      []uint64             `json:"postBalances"`
	PreTokenBalances  []solanaTokenBalance `json:"preTokenBalances"`
	PostTokenBalances []solanaTokenBalance `json:"postTokenBalances"`
}

type solanaTokenBalance struct {
	AccountIndex  int    `json:"accountIndex"`
	Mint          string `json:"mint"`
	Owner         string `json:"owner"`
	UITokenAmount struct {
		Amount   string `json:"amount"`
		Decimals int32  `json:"decimals"`
	} `json:"uiTokenAmount"`
}

const lamportDecimals = 9

// solanaTransaction derives direction and amount from the sign of the
// wallet's balance delta (pre vs post), not from message structure:
// sender/receiver positions in the raw payload are not fixed.
type solanaTransaction struct {
	signature string
	detail    *solanaTxDetail
}

func (r *solanaTransaction) Normalize(asset models.TrackedAsset, walletAddress string) *models.NormalizedTransaction {
	if r.detail == nil || r.detail.Meta == nil {
		return nil
	}
	meta := r.detail.Meta

	var delta *big.Int
	if asset.IsNative {
		delta = r.lamportDelta(walletAddress)
	} else {
		delta = r.tokenDelta(asset.ContractAddress, walletAddress)
	}
	if delta == nil || delta.Sign() == 0 {
		return nil
	}

	direction := models.DirectionReceive
	if delta.Sign() < 0 {
		direction = models.DirectionSend
	}

	status := models.StatusConfirmed
	if len(meta.Err) > 0 && string(meta.Err) != "null" {
		status = models.StatusFailed
	}

	tx := &models.NormalizedTransaction{
		TxHash:      r.signature,
		Direction:   direction,
		Status:      status,
		AssetSymbol: asset.Symbol,
		Chain:       asset.Chain,
		Amount:      formatUnits(delta, asset.Decimals),
		BlockNumber: int64(r.detail.Slot),
	}
	if r.detail.BlockTime != nil {
		tx.BlockTimestamp = time.Unix(*r.detail.BlockTime, 0).UTC()
	}
	if direction == models.DirectionSend {
		tx.FromAddress = walletAddress
		if r.feePayer() == walletAddress && meta.Fee > 0 {
			tx.Fee = formatUnitsInt(int64(meta.Fee), lamportDecimals)
			tx.FeeAsset = "SOL"
		}
	} else {
		tx.ToAddress = walletAddress
	}
	return tx
}

func (r *solanaTransaction) feePayer() string {
	keys := r.detail.Transaction.Message.AccountKeys
	if len(keys) == 0 {
		return ""
	}
	return keys[0].Pubkey
}

// lamportDelta is post - pre for the wallet's own account entry.
func (r *solanaTransaction) lamportDelta(walletAddress string) *big.Int {
	meta := r.detail.Meta
	for i, key := range r.detail.Transaction.Message.AccountKeys {
		if key.Pubkey != walletAddress {
			continue
		}
		if i >= len(meta.PreBalances) || i >= len(meta.PostBalances) {
			return nil
		}
		pre := new(big.Int).SetUint64(meta.PreBalances[i])
		post := new(big.Int).SetUint64(meta.PostBalances[i])
		return post.Sub(post, pre)
	}
	return nil
}

// tokenDelta is post - pre summed over the owner's balances for the mint.
func (r *solanaTransaction) tokenDelta(mint, owner string) *big.Int {
	meta := r.detail.Meta
	pre := sumTokenBalances(meta.PreTokenBalances, mint, owner)
	post := sumTokenBalances(meta.PostTokenBalances, mint, owner)
	if pre == nil && post == nil {
		return nil
	}
	if pre == nil {
		pre = new(big.Int)
	}
	if post == nil {
		post = new(big.Int)
	}
	return new(big.Int).Sub(post, pre)
}

func sumTokenBalances(balances []solanaTokenBalance, mint, owner string) *big.Int {
	var sum *big.Int
	for _, b := range balances {
		if b.Mint != mint || b.Owner != owner {
			continue
		}
		v, ok := parseRawAmount(b.UITokenAmount.Amount)
		if !ok {
			continue
		}
		if sum == nil {
			sum = new(big.Int)
		}
		sum.Add(sum, v)
	}
	return sum
}
