package store

import (
	"context"
	"errors"

	"wallet-sync-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrUserNotFound         = errors.New("user not found")
)

// TransactionKey identifies an already-recorded transaction for dedup
// purposes. The same TxHash may legitimately appear once per distinct
// asset (e.g. a batch transfer touching two tokens).
type TransactionKey struct {
	TxHash      string
	AssetSymbol string
}

// AssetRegistry is the read-only snapshot of enabled tracked assets.
type AssetRegistry interface {
	GetTrackedAssets(ctx context.Context) ([]models.TrackedAsset, error)
}

// WalletAddressStore is the read-only snapshot of a user's per-chain-type
// addresses.
type WalletAddressStore interface {
	GetWalletAddresses(ctx context.Context, userId string) ([]models.WalletAddress, error)
}

// RpcEndpointDirectory is the read-only snapshot of prioritized RPC URLs
// for one network mode.
type RpcEndpointDirectory interface {
	GetRpcEndpoints(ctx context.Context, network string) ([]models.RpcEndpoint, error)
}

// TransactionStore is the append-only transaction record store.
type TransactionStore interface {
	// InsertTransaction persists one normalized transaction. A conflicting
	// insert on (user, tx hash, asset symbol) returns ErrDuplicateTransaction,
	// which callers treat as success.
	InsertTransaction(ctx context.Context, userId string, tx *models.NormalizedTransaction) error
	// ReadExistingKeys returns the (tx hash, asset symbol) pairs already
	// recorded for the user, used to seed the per-run dedup set.
	ReadExistingKeys(ctx context.Context, userId string) ([]TransactionKey, error)
	GetTransactionHistory(ctx context.Context, userId, asset string, limit, offset int) ([]models.WalletTransaction, error)
}

// SyncStore bundles everything one reconciliation run reads and writes.
type SyncStore interface {
	AssetRegistry
	WalletAddressStore
	RpcEndpointDirectory
	TransactionStore
}
