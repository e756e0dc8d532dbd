package main

import (
	"context"
	"flag"

	"wallet-sync-go/internal/common"
	"wallet-sync-go/internal/config"
	"wallet-sync-go/internal/models"

	"go.uber.org/zap"
)

// setup initializes the schema and seeds users, wallet addresses, tracked
// assets and RPC endpoints from a YAML file.
func main() {
	seedFile := flag.String("seed", "", "Path to seed.yaml (default: SEED_FILE)")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	if *seedFile == "" {
		*seedFile = cfg.Sync.SeedFile
	}

	ctx := context.Background()

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	seed, err := common.LoadSeedConfig(*seedFile)
	if err != nil {
		zap.L().Fatal("Failed to load seed config", zap.String("file", *seedFile), zap.Error(err))
	}

	for _, user := range seed.Users {
		created, err := dbService.CreateUser(ctx, user.Id, user.Name, user.Email)
		if err != nil {
			zap.L().Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
			continue
		}
		zap.L().Info("User ready", zap.String("id", created.Id), zap.String("name", created.Name))

		for chainType, address := range user.Addresses {
			if err := dbService.StoreWalletAddress(ctx, created.Id, models.ChainType(chainType), address); err != nil {
				zap.L().Error("Failed to store wallet address",
					zap.String("user_id", created.Id),
					zap.String("chain_type", chainType),
					zap.Error(err))
				continue
			}
			zap.L().Info("Wallet address stored",
				zap.String("user_id", created.Id),
				zap.String("chain_type", chainType),
				zap.String("address", address))
		}
	}

	for _, asset := range seed.Assets {
		err := dbService.StoreTrackedAsset(ctx, models.TrackedAsset{
			Symbol:          asset.Symbol,
			Name:            asset.Name,
			Chain:           asset.Chain,
			ChainType:       models.ChainType(asset.ChainType),
			ContractAddress: asset.ContractAddress,
			Decimals:        asset.Decimals,
			IsNative:        asset.IsNative,
		})
		if err != nil {
			zap.L().Error("Failed to store tracked asset",
				zap.String("symbol", asset.Symbol),
				zap.String("chain", asset.Chain),
				zap.Error(err))
			continue
		}
		zap.L().Info("Tracked asset stored",
			zap.String("symbol", asset.Symbol),
			zap.String("chain", asset.Chain))
	}

	for _, endpoint := range seed.Endpoints {
		err := dbService.StoreRpcEndpoint(ctx, models.RpcEndpoint{
			ChainType: models.ChainType(endpoint.ChainType),
			ChainName: endpoint.ChainName,
			Network:   endpoint.Network,
			URL:       endpoint.URL,
			Priority:  endpoint.Priority,
		})
		if err != nil {
			zap.L().Error("Failed to store rpc endpoint",
				zap.String("chain_type", endpoint.ChainType),
				zap.String("url", endpoint.URL),
				zap.Error(err))
			continue
		}
		zap.L().Info("RPC endpoint stored",
			zap.String("chain_type", endpoint.ChainType),
			zap.String("chain_name", endpoint.ChainName),
			zap.String("network", endpoint.Network))
	}

	zap.L().Info("Setup complete",
		zap.Int("users", len(seed.Users)),
		zap.Int("assets", len(seed.Assets)),
		zap.Int("endpoints", len(seed.Endpoints)))
}
