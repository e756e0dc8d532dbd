package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Sync     SyncConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path             string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	ConnMaxIdleTime  time.Duration
	PingTimeout      time.Duration
	CreateDummyUsers bool
}

// SyncConfig holds reconciliation run settings
type SyncConfig struct {
	// RPCTimeout bounds every single outbound RPC/REST call so one
	// unresponsive provider cannot stall the whole report.
	RPCTimeout time.Duration
	// Network selects which RPC endpoints are resolved (mainnet or testnet).
	Network string
	// SeedFile is the YAML file read by the setup tool.
	SeedFile string
}
