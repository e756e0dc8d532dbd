package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallet-sync-go/internal/models"
	"wallet-sync-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestService(t *testing.T) (*Service, func()) {
	t.Helper()

	service, err := NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		service.Close()
	}
	return service, cleanup
}

func sampleTransaction(txHash, asset string) *models.NormalizedTransaction {
	return &models.NormalizedTransaction{
		TxHash:      txHash,
		Direction:   models.DirectionReceive,
		Status:      models.StatusConfirmed,
		AssetSymbol: asset,
		Chain:       "ethereum",
		Amount:      "1.000000",
		FromAddress: "0xdef",
		ToAddress:   "0xabc",
		BlockNumber: 123,
	}
}

func TestInsertTransaction_DuplicateKeyIsReported(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"

	if err := service.InsertTransaction(ctx, userId, sampleTransaction("0xAAA", "USDC")); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := service.InsertTransaction(ctx, userId, sampleTransaction("0xAAA", "USDC"))
	if !errors.Is(err, store.ErrDuplicateTransaction) {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}
}

func TestInsertTransaction_SameHashDistinctAssets(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"

	// A batch transfer touching two tokens shares one tx hash; both rows
	// must be recorded.
	if err := service.InsertTransaction(ctx, userId, sampleTransaction("0xAAA", "USDC")); err != nil {
		t.Fatalf("USDC insert failed: %v", err)
	}
	if err := service.InsertTransaction(ctx, userId, sampleTransaction("0xAAA", "USDT")); err != nil {
		t.Fatalf("USDT insert failed: %v", err)
	}

	keys, err := service.ReadExistingKeys(ctx, userId)
	if err != nil {
		t.Fatalf("ReadExistingKeys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
}

func TestInsertTransaction_ScopedPerUser(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.InsertTransaction(ctx, "user1", sampleTransaction("0xAAA", "USDC")); err != nil {
		t.Fatalf("user1 insert failed: %v", err)
	}
	// Another user recording the same (hash, asset) pair is not a conflict.
	if err := service.InsertTransaction(ctx, "user2", sampleTransaction("0xAAA", "USDC")); err != nil {
		t.Fatalf("user2 insert failed: %v", err)
	}

	keys, err := service.ReadExistingKeys(ctx, "user1")
	if err != nil {
		t.Fatalf("ReadExistingKeys failed: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected 1 key for user1, got %d", len(keys))
	}
}

func TestGetTransactionHistory_AssetFilter(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"

	if err := service.InsertTransaction(ctx, userId, sampleTransaction("0xAAA", "USDC")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := service.InsertTransaction(ctx, userId, sampleTransaction("0xBBB", "USDT")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	all, err := service.GetTransactionHistory(ctx, userId, "", 10, 0)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(all))
	}

	filtered, err := service.GetTransactionHistory(ctx, userId, "USDT", 10, 0)
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 USDT transaction, got %d", len(filtered))
	}
	if filtered[0].TxHash != "0xBBB" {
		t.Errorf("expected tx 0xBBB, got %s", filtered[0].TxHash)
	}
	if filtered[0].Amount != "1.000000" {
		t.Errorf("expected amount 1.000000, got %s", filtered[0].Amount)
	}
}
