package models

import (
	"time"
)

// User represents a user in the system
type User struct {
	Id        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// WalletAddress represents a user's on-chain address for one chain type.
// There is at most one address per (user, chain type); every chain of the
// same type (e.g. all EVM networks) shares it.
type WalletAddress struct {
	Id        string    `db:"id"`
	UserId    string    `db:"user_id"`
	ChainType ChainType `db:"chain_type"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
}

// TrackedAsset is an enabled asset the engine scans activity for.
// The set is loaded once per run and immutable for its duration.
type TrackedAsset struct {
	Id              string    `db:"id"`
	Symbol          string    `db:"symbol"`
	Name            string    `db:"name"`
	Chain           string    `db:"chain"`
	ChainType       ChainType `db:"chain_type"`
	ContractAddress string    `db:"contract_address"`
	Decimals        int32     `db:"decimals"`
	IsNative        bool      `db:"is_native"`
}

// RpcEndpoint is one prioritized RPC/REST URL. A chain-name-specific entry
// (ChainName set) is preferred over a chain-type default (ChainName empty);
// within a tier the lowest priority number wins.
type RpcEndpoint struct {
	Id        string    `db:"id"`
	ChainType ChainType `db:"chain_type"`
	ChainName string    `db:"chain_name"`
	Network   string    `db:"network"`
	URL       string    `db:"url"`
	Priority  int       `db:"priority"`
}

// WalletTransaction represents one immutable recorded transaction row.
// Uniqueness is enforced on (user_id, tx_hash, asset_symbol).
type WalletTransaction struct {
	Id             string    `db:"id"`
	UserId         string    `db:"user_id"`
	TxHash         string    `db:"tx_hash"`
	Direction      Direction `db:"direction"`
	Status         TxStatus  `db:"status"`
	AssetSymbol    string    `db:"asset_symbol"`
	Chain          string    `db:"chain"`
	Amount         string    `db:"amount"`
	FromAddress    string    `db:"from_address"`
	ToAddress      string    `db:"to_address"`
	BlockNumber    int64     `db:"block_number"`
	BlockTimestamp time.Time `db:"block_timestamp"`
	Fee            string    `db:"fee"`
	FeeAsset       string    `db:"fee_asset"`
	CreatedAt      time.Time `db:"created_at"`
}
