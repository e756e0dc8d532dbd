package database

import (
	"context"
	"testing"

	"wallet-sync-go/internal/models"
)

func TestRpcEndpoints_ScopedByNetwork(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	endpoints := []models.RpcEndpoint{
		{ChainType: models.ChainTypeEVM, ChainName: "ethereum", Network: "mainnet", URL: "https://main.example", Priority: 0},
		{ChainType: models.ChainTypeEVM, ChainName: "ethereum", Network: "testnet", URL: "https://test.example", Priority: 0},
		{ChainType: models.ChainTypeBTC, Network: "mainnet", URL: "https://btc.example", Priority: 1},
	}
	for _, e := range endpoints {
		if err := service.StoreRpcEndpoint(ctx, e); err != nil {
			t.Fatalf("StoreRpcEndpoint failed: %v", err)
		}
	}

	mainnet, err := service.GetRpcEndpoints(ctx, "mainnet")
	if err != nil {
		t.Fatalf("GetRpcEndpoints failed: %v", err)
	}
	if len(mainnet) != 2 {
		t.Fatalf("expected 2 mainnet endpoints, got %d", len(mainnet))
	}
	for _, e := range mainnet {
		if e.Network != "mainnet" {
			t.Errorf("unexpected network %s in mainnet snapshot", e.Network)
		}
	}
}

func TestTrackedAssets_UpsertKeepsOneRow(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	asset := models.TrackedAsset{
		Symbol:          "USDC",
		Name:            "USD Coin",
		Chain:           "ethereum",
		ChainType:       models.ChainTypeEVM,
		ContractAddress: "0xdef",
		Decimals:        6,
	}
	if err := service.StoreTrackedAsset(ctx, asset); err != nil {
		t.Fatalf("StoreTrackedAsset failed: %v", err)
	}

	// Re-seeding the same (symbol, chain) updates in place.
	asset.ContractAddress = "0xfed"
	if err := service.StoreTrackedAsset(ctx, asset); err != nil {
		t.Fatalf("StoreTrackedAsset upsert failed: %v", err)
	}

	assets, err := service.GetTrackedAssets(ctx)
	if err != nil {
		t.Fatalf("GetTrackedAssets failed: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(assets))
	}
	if assets[0].ContractAddress != "0xfed" {
		t.Errorf("expected updated contract address, got %s", assets[0].ContractAddress)
	}
}

func TestWalletAddresses_OnePerChainType(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	user, err := service.CreateUser(ctx, "", "Alice Johnson", "alice.johnson@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := service.StoreWalletAddress(ctx, user.Id, models.ChainTypeEVM, "0xaaa"); err != nil {
		t.Fatalf("StoreWalletAddress failed: %v", err)
	}
	// Storing again for the same chain type replaces the address.
	if err := service.StoreWalletAddress(ctx, user.Id, models.ChainTypeEVM, "0xbbb"); err != nil {
		t.Fatalf("StoreWalletAddress replace failed: %v", err)
	}

	addresses, err := service.GetWalletAddresses(ctx, user.Id)
	if err != nil {
		t.Fatalf("GetWalletAddresses failed: %v", err)
	}
	if len(addresses) != 1 {
		t.Fatalf("expected 1 address, got %d", len(addresses))
	}
	if addresses[0].Address != "0xbbb" {
		t.Errorf("expected replaced address 0xbbb, got %s", addresses[0].Address)
	}
}
