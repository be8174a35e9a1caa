// pool-info prints a read-only snapshot of the staking pool. No signer is
// needed; reads go through the network provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/trivex/trivex-go/internal/contract"
	"github.com/trivex/trivex-go/internal/session"
	"github.com/trivex/trivex-go/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("[PoolInfo] No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[PoolInfo] Failed to load config: %v", err)
	}

	sess := &session.Session{WalletAddress: cfg.WalletAddress}
	bridge, err := contract.NewBridge(contract.Config{
		RPCURL:            cfg.Chain.RPCURL,
		ChainID:           cfg.Chain.ChainID,
		SettlementAddress: cfg.Chain.SettlementAddress,
		TokenAddress:      cfg.Chain.TokenAddress,
	}, sess)
	if err != nil {
		log.Fatalf("[PoolInfo] Failed to connect: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	total, err := bridge.TotalStaked(ctx)
	if err != nil {
		log.Fatalf("[PoolInfo] total staked: %v", err)
	}
	apy, err := bridge.APY(ctx)
	if err != nil {
		log.Fatalf("[PoolInfo] apy: %v", err)
	}
	fmt.Printf("Trading Pool: total staked %s USD, APY %s%%\n", total, apy)

	if cfg.WalletAddress != "" {
		staked, err := bridge.StakedBalance(ctx, cfg.WalletAddress)
		if err != nil {
			log.Fatalf("[PoolInfo] staked balance: %v", err)
		}
		fmt.Printf("Wallet %s: staked %s USD\n", cfg.WalletAddress, staked)
	}
}
