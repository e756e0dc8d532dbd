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

package database

const (
	// User queries
	queryGetActiveUsers = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE active = 1
		ORDER BY created_at`

	queryInsertUser = `
		INSERT OR IGNORE INTO users (id, name, email) VALUES (?, ?, ?)`

	queryGetUserById = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = ? AND active = 1`

	// Wallet address queries
	queryInsertWalletAddress = `
		INSERT INTO wallet_addresses (id, user_id, chain_type, address)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, chain_type) DO UPDATE SET address = excluded.address`

	queryGetWalletAddresses = `
		SELECT id, user_id, chain_type, address, created_at
		FROM wallet_addresses
		WHERE user_id = ?
		ORDER BY chain_type`

	// Tracked asset queries
	queryInsertTrackedAsset = `
		INSERT INTO tracked_assets (id, symbol, name, chain, chain_type, contract_address, decimals, is_native, enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(symbol, chain) DO UPDATE SET
			name = excluded.name,
			chain_type = excluded.chain_type,
			contract_address = excluded.contract_address,
			decimals = excluded.decimals,
			is_native = excluded.is_native,
			enabled = 1`

	queryGetTrackedAssets = `
		SELECT id, symbol, name, chain, chain_type, contract_address, decimals, is_native
		FROM tracked_assets
		WHERE enabled = 1
		ORDER BY chain, symbol`

	// RPC endpoint queries
	queryInsertRpcEndpoint = `
		INSERT INTO rpc_endpoints (id, chain_type, chain_name, network, url, priority)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chain_type, chain_name, network, priority) DO UPDATE SET url = excluded.url`

	queryGetRpcEndpoints = `
		SELECT id, chain_type, chain_name, network, url, priority
		FROM rpc_endpoints
		WHERE network = ?
		ORDER BY chain_type, chain_name, priority`

	// Transaction queries
	queryInsertTransaction = `
		INSERT INTO transactions (
			id, user_id, tx_hash, direction, status, asset_symbol, chain,
			amount, from_address, to_address, block_number, block_timestamp,
			fee, fee_asset
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, tx_hash, asset_symbol) DO NOTHING`

	queryReadExistingKeys = `
		SELECT tx_hash, asset_symbol
		FROM transactions
		WHERE user_id = ?`

	queryGetTransactionHistory = `
		SELECT id, user_id, tx_hash, direction, status, asset_symbol, chain,
		       amount, from_address, to_address, block_number, block_timestamp,
		       fee, fee_asset, created_at
		FROM transactions
		WHERE user_id = ? AND (? = '' OR asset_symbol = ?)
		ORDER BY created_at DESC, tx_hash
		LIMIT ? OFFSET ?`
)
