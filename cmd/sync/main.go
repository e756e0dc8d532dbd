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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wallet-sync-go/internal/common"
	"wallet-sync-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	userId := flag.String("user", "", "User id to sync transactions for (required)")
	network := flag.String("network", "", "Network mode: mainnet or testnet (default: SYNC_NETWORK)")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	if *userId == "" {
		zap.L().Fatal("Missing required -user flag")
	}
	if *network == "" {
		*network = cfg.Sync.Network
	}
	if *network != "mainnet" && *network != "testnet" {
		zap.L().Fatal("Invalid network mode", zap.String("network", *network))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		zap.L().Info("Shutdown signal received, cancelling sync")
		cancel()
	}()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	report, err := services.ApiService.SyncTransactions(ctx, *userId, *network)
	if err != nil {
		zap.L().Fatal("Sync failed",
			zap.String("user_id", *userId),
			zap.String("network", *network),
			zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("Sync report for user %s (%s)", *userId, *network), common.DefaultWidth)
	for i, result := range report.Results {
		isLast := i == len(report.Results)-1
		fmt.Printf("%s%s / %s: fetched %d, recorded %d\n",
			common.BoxPrefix(isLast), result.Chain, result.Asset,
			result.FetchedCount, result.RecordedCount)
		for _, errMsg := range result.Errors {
			fmt.Printf("%s  error: %s\n", common.BoxDetailPrefix(isLast), errMsg)
		}
	}
	common.PrintFooter(fmt.Sprintf("Total fetched: %d | Total recorded: %d",
		report.TotalFetched, report.TotalRecorded), common.DefaultWidth)
}
