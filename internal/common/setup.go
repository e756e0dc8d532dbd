package common

import (
	"context"
	"log"
	"strings"

	"wallet-sync-go/internal/api"
	"wallet-sync-go/internal/chain"
	"wallet-sync-go/internal/database"
	"wallet-sync-go/internal/models"
	"wallet-sync-go/internal/reconcile"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	}
}

type Services struct {
	DbService  *database.Service
	Reconciler *reconcile.Service
	ApiService *api.SyncService
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	fetchers := chain.NewFetcherRegistry(cfg.Sync)
	reconciler := reconcile.NewService(dbService, fetchers)

	return &Services{
		DbService:  dbService,
		Reconciler: reconciler,
		ApiService: api.NewSyncService(dbService, reconciler),
	}, nil
}

// InitializeDatabaseOnly initializes just the database service.
// Useful for read-only operations like printing transaction history.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
