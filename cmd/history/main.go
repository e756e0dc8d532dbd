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
	"time"

	"wallet-sync-go/internal/common"
	"wallet-sync-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	userId := flag.String("user", "", "User id to print history for (required)")
	asset := flag.String("asset", "", "Optional asset symbol filter")
	limit := flag.Int("limit", 50, "Maximum rows to print")
	offset := flag.Int("offset", 0, "Pagination offset")
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

	ctx := context.Background()

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	user, err := dbService.GetUserById(ctx, *userId)
	if err != nil {
		zap.L().Fatal("User lookup failed", zap.String("user_id", *userId), zap.Error(err))
	}

	transactions, err := dbService.GetTransactionHistory(ctx, user.Id, *asset, *limit, *offset)
	if err != nil {
		zap.L().Fatal("Failed to load transaction history", zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("Transaction history for %s (%s)", user.Name, user.Id), common.WideWidth)
	if len(transactions) == 0 {
		fmt.Println("No transactions recorded")
	}
	for i, tx := range transactions {
		isLast := i == len(transactions)-1
		fmt.Printf("%s%s  %-7s %-9s %s %s on %s\n",
			common.BoxPrefix(isLast), tx.CreatedAt.Format(time.RFC3339),
			tx.Direction, tx.Status, tx.Amount, tx.AssetSymbol, tx.Chain)
		fmt.Printf("%s  hash: %s\n", common.BoxDetailPrefix(isLast), tx.TxHash)
		if tx.Fee != "" {
			fmt.Printf("%s  fee: %s %s\n", common.BoxDetailPrefix(isLast), tx.Fee, tx.FeeAsset)
		}
	}
	common.PrintFooter(fmt.Sprintf("%d transaction(s)", len(transactions)), common.WideWidth)
}
