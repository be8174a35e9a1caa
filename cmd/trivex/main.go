package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/trivex/trivex-go/internal/backend"
	"github.com/trivex/trivex-go/internal/contract"
	"github.com/trivex/trivex-go/internal/domain"
	"github.com/trivex/trivex-go/internal/ports"
	"github.com/trivex/trivex-go/internal/session"
	"github.com/trivex/trivex-go/internal/wallet"
	"github.com/trivex/trivex-go/pkg/config"
	"github.com/trivex/trivex-go/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	sector := flag.String("sector", "crypto", "sector to open the session with")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("[Trivex] No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Trivex] Failed to load config: %v", err)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("[Trivex] Failed to init logger: %v", err)
	}

	var signer wallet.Signer
	if cfg.PrivateKey != "" {
		s, err := wallet.NewKeySigner(cfg.PrivateKey)
		if err != nil {
			log.Fatalf("[Trivex] Bad private key: %v", err)
		}
		signer = s
	} else {
		log.Println("[Trivex] No private key set; on-chain writes are disabled")
	}

	sess := &session.Session{
		WalletAddress: cfg.WalletAddress,
		Signer:        signer,
		Whitelisted:   cfg.Whitelisted,
	}

	client := backend.NewClient(cfg.Backend, sess)
	bridge, err := contract.NewBridge(contract.Config{
		RPCURL:            cfg.Chain.RPCURL,
		ChainID:           cfg.Chain.ChainID,
		SettlementAddress: cfg.Chain.SettlementAddress,
		TokenAddress:      cfg.Chain.TokenAddress,
	}, sess)
	if err != nil {
		log.Fatalf("[Trivex] Failed to connect contract bridge: %v", err)
	}

	ctrl := session.NewController(sess, session.Deps{
		Catalog: client,
		Prices:  client,
		Ledger:  client,
		Book:    client,
		Orders:  client,
		Bridge:  bridge,
		Notify: ports.NotifierFunc(func(msg string) {
			fmt.Println(">>", msg)
		}),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctrl.Mount(ctx)

	sec, err := domain.ParseSector(*sector)
	if err != nil {
		log.Fatalf("[Trivex] %v", err)
	}
	if err := ctrl.SelectSector(ctx, sec); err != nil {
		logger.Warnf("sector selection degraded: %v", err)
	}

	snap := ctrl.Snapshot()
	fmt.Printf("sector=%s symbols=%v\n", snap.Sector, snap.Symbols)
	if snap.Symbol != "" {
		if err := ctrl.SelectSymbol(ctx, snap.Symbol); err != nil {
			logger.Warnf("price fetch degraded: %v", err)
		}
		snap = ctrl.Snapshot()
		if snap.HasPrice {
			fmt.Printf("symbol=%s price=$%s maxLeverage=%dx\n", snap.Symbol, snap.Price.StringFixed(2), snap.MaxLeverage)
		} else {
			fmt.Printf("symbol=%s price=N/A maxLeverage=%dx\n", snap.Symbol, snap.MaxLeverage)
		}
	}

	ctrl.RefreshSettings(ctx)
	ctrl.RefreshPool(ctx)
	snap = ctrl.Snapshot()
	fmt.Printf("balance=%s USD  on-chain=%s  positions=%d transactions=%d\n",
		snap.Balance.StringFixed(2), snap.WalletBalance.StringFixed(2),
		len(snap.Positions), len(snap.Transactions))
	fmt.Printf("pool: staked=%s total=%s apy=%s%%\n",
		snap.Pool.StakedBalance, snap.Pool.TotalPoolBalance, snap.Pool.APY)
}
