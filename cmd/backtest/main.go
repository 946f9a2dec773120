package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"bond-arb-go/config"
	"bond-arb-go/execution"
	"bond-arb-go/feed"
	"bond-arb-go/infrastructure/logger"
	"bond-arb-go/internal/engine"
	"bond-arb-go/ledger"
	"bond-arb-go/market"
	"bond-arb-go/order"
	"bond-arb-go/strategy"
)

// 回放本地 CSV 行情，逐条驱动 探测->定量->结算 循环，最后输出汇总。
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	dataDir := flag.String("data", "", "行情 CSV 目录（覆盖配置）")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dataDir != "" {
		cfg.Feed.DataDir = *dataDir
	}
	if cfg.Feed.DataDir == "" {
		log.Fatalf("backtest requires feed.dataDir")
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Close()

	registry, err := cfg.Registry()
	if err != nil {
		log.Fatalf("build registry: %v", err)
	}

	books := market.NewStore()
	led := ledger.New(cfg.InitialARS)
	detector := strategy.NewDetector(registry, cfg.FeeRate)
	settlement := execution.NewEngine(&order.FIXGateway{Logger: zlog.Logger}, books, led, zlog, cfg.FeeRate)
	seq, err := engine.New(engine.Config{MaxIterations: cfg.MaxIterations}, engine.Components{
		Books:      books,
		Detector:   detector,
		Ledger:     led,
		Settlement: settlement,
		Logger:     zlog,
	})
	if err != nil {
		log.Fatalf("init sequencer: %v", err)
	}

	snaps, err := feed.LoadDir(cfg.Feed.DataDir)
	if err != nil {
		log.Fatalf("load market data: %v", err)
	}
	zlog.Info("market data loaded",
		zap.String("dir", cfg.Feed.DataDir),
		zap.Int("updates", len(snaps)))

	for _, snap := range snaps {
		if err := seq.OnSnapshot(snap); err != nil {
			if errors.Is(err, execution.ErrUSDBalanceViolation) {
				zlog.Error("sizing defect: balance invariant violated, aborting run", zap.Error(err))
				printSummary(seq, books)
				os.Exit(1)
			}
			log.Fatalf("tick failed: %v", err)
		}
	}

	printSummary(seq, books)
}

// printSummary 输出运行统计与各证券订单簿终态。
func printSummary(seq *engine.Sequencer, books *market.Store) {
	stats := seq.GetStatistics()
	bal := seq.Balances()

	fmt.Println("============================================================")
	fmt.Println("Run Summary")
	fmt.Println("============================================================")
	fmt.Printf("Updates processed:   %d (buffered: %d)\n", stats.Ticks, stats.BufferedApplied)
	fmt.Printf("Arbitrages executed: %d\n", stats.Executions)
	fmt.Printf("Opportunities skipped: %d (suppressed: %d)\n", stats.Skips, stats.SuppressedSkips)
	fmt.Printf("Iteration cap hits:  %d\n", stats.CapAnomalies)
	fmt.Printf("Total PnL ARS:       %.2f\n", stats.TotalPnLARS)
	fmt.Printf("Total PnL USD:       %.2f\n", stats.TotalPnLUSD)
	fmt.Printf("Total settle time:   %s\n", stats.TotalLatency)
	fmt.Printf("Final balances:      ARS %.2f / USD %.2f\n", bal.ARS, bal.USD)

	fmt.Println("\nOrder Books Summary:")
	for _, sec := range books.Securities() {
		book, ok := books.Lookup(sec)
		if !ok {
			continue
		}
		fmt.Printf("\nSecurity: %s\n", sec)
		if bid, ok := book.BestBid(); ok {
			fmt.Printf("  Best Bid:   %.2f x %.2f\n", bid.Price, bid.Volume)
		} else {
			fmt.Println("  Best Bid:   -")
		}
		if offer, ok := book.BestOffer(); ok {
			fmt.Printf("  Best Offer: %.2f x %.2f\n", offer.Price, offer.Volume)
		} else {
			fmt.Println("  Best Offer: -")
		}
		if spread, ok := book.Spread(); ok {
			fmt.Printf("  Spread:     %.2f\n", spread)
		}
		fmt.Printf("  Bid Levels: %d, Offer Levels: %d\n", book.Depth(market.SideBid), book.Depth(market.SideOffer))
		fmt.Printf("  Last Update: %s\n", book.LastUpdate())
	}
}
