package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"wallet-sync-go/internal/models"
)

// erc20TransferTopic is the canonical keccak256("Transfer(address,address,uint256)").
var erc20TransferTopic = ethcommon.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")

// evmLogRange limits eth_getLogs to the provider's typical block-range cap.
const evmLogRange = 9000

// EVMFetcher scans ERC20 Transfer logs touching the wallet. Native-coin
// transfers are not scanned: they require full block tracing.
type EVMFetcher struct {
	timeout time.Duration
}

func NewEVMFetcher(timeout time.Duration) *EVMFetcher {
	return &EVMFetcher{timeout: timeout}
}

func (f *EVMFetcher) FetchRawActivity(ctx context.Context, asset models.TrackedAsset, address, endpointURL string) ([]RawActivity, error) {
	if asset.IsNative {
		return nil, nil
	}
	if asset.ContractAddress == "" {
		return nil, nil
	}

	client, err := f.dial(ctx, endpointURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpointURL, err)
	}
	defer client.Close()

	height, err := f.blockNumber(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("eth_blockNumber: %w", err)
	}

	var fromBlock uint64
	if height > evmLogRange {
		fromBlock = height - evmLogRange
	}

	contract := ethcommon.HexToAddress(asset.ContractAddress)
	walletTopic := addressTopic(address)

	var records []RawActivity

	// Incoming transfers: Transfer(*, wallet, *)
	incoming, err := f.filterLogs(ctx, client, contract, fromBlock, [][]ethcommon.Hash{
		{erc20TransferTopic}, nil, {walletTopic},
	})
	if err != nil {
		return records, fmt.Errorf("eth_getLogs to=%s: %w", address, err)
	}
	for _, lg := range incoming {
		records = append(records, &evmTransferLog{log: lg, direction: models.DirectionReceive})
	}

	// Outgoing transfers: Transfer(wallet, *, *)
	outgoing, err := f.filterLogs(ctx, client, contract, fromBlock, [][]ethcommon.Hash{
		{erc20TransferTopic}, {walletTopic},
	})
	if err != nil {
		return records, fmt.Errorf("eth_getLogs from=%s: %w", address, err)
	}
	for _, lg := range outgoing {
		records = append(records, &evmTransferLog{log: lg, direction: models.DirectionSend})
	}

	return records, nil
}

func (f *EVMFetcher) dial(ctx context.Context, endpointURL string) (*ethclient.Client, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return ethclient.DialContext(callCtx, endpointURL)
}

func (f *EVMFetcher) blockNumber(ctx context.Context, client *ethclient.Client) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return client.BlockNumber(callCtx)
}

func (f *EVMFetcher) filterLogs(ctx context.Context, client *ethclient.Client, contract ethcommon.Address, fromBlock uint64, topics [][]ethcommon.Hash) ([]types.Log, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return client.FilterLogs(callCtx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []ethcommon.Address{contract},
		Topics:    topics,
	})
}

// addressTopic left-pads an EVM address to the 32-byte topic encoding.
func addressTopic(address string) ethcommon.Hash {
	addr := ethcommon.HexToAddress(address)
	return ethcommon.BytesToHash(ethcommon.LeftPadBytes(addr.Bytes(), 32))
}

// evmTransferLog is one ERC20 Transfer log, tagged with the direction of
// the query that found it (the wallet's own role in the transfer).
type evmTransferLog struct {
	log       types.Log
	direction models.Direction
}

func (r *evmTransferLog) Normalize(asset models.TrackedAsset, walletAddress string) *models.NormalizedTransaction {
	if r.log.Removed || len(r.log.Topics) < 3 {
		return nil
	}

	amount := new(big.Int).SetBytes(r.log.Data)
	from := ethcommon.BytesToAddress(r.log.Topics[1].Bytes())
	to := ethcommon.BytesToAddress(r.log.Topics[2].Bytes())

	return &models.NormalizedTransaction{
		TxHash:      r.log.TxHash.Hex(),
		Direction:   r.direction,
		Status:      models.StatusConfirmed,
		AssetSymbol: asset.Symbol,
		Chain:       asset.Chain,
		Amount:      formatUnits(amount, asset.Decimals),
		FromAddress: strings.ToLower(from.Hex()),
		ToAddress:   strings.ToLower(to.Hex()),
		BlockNumber: int64(r.log.BlockNumber),
	}
}
