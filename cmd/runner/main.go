package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bond-arb-go/api"
	"bond-arb-go/config"
	"bond-arb-go/execution"
	"bond-arb-go/feed"
	"bond-arb-go/infrastructure/logger"
	"bond-arb-go/internal/engine"
	"bond-arb-go/ledger"
	"bond-arb-go/market"
	"bond-arb-go/metrics"
	"bond-arb-go/order"
	"bond-arb-go/strategy"
)

// 实时模式：从行情 WS 接收快照驱动时序器，并暴露 metrics 与状态 API。
func main() {
	_ = godotenv.Load() // .env 可选

	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	watch := flag.Bool("watch", true, "监听配置文件变化")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Feed.WSURL == "" {
		log.Fatalf("runner requires feed.wsURL (or ARB_WS_URL)")
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
	metrics.UpdateBalances(led.ARS(), led.USD())
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsAddr != "" {
		metrics.StartMetricsServer(cfg.MetricsAddr)
		zlog.Info("metrics server started", zap.String("addr", cfg.MetricsAddr))
	}
	if cfg.APIAddr != "" {
		api.NewServer(seq, books).Start(cfg.APIAddr)
		zlog.Info("status api started", zap.String("addr", cfg.APIAddr))
	}

	if *watch {
		watcher := config.Watcher{Path: *cfgPath}
		go func() {
			err := watcher.Start(ctx,
				func(updated config.AppConfig) {
					seq.SetMaxIterations(updated.MaxIterations)
					zlog.Info("config reloaded", zap.Int("max_iterations", updated.MaxIterations))
				},
				func(err error) {
					zlog.Warn("config reload failed", zap.Error(err))
				})
			if err != nil && !errors.Is(err, context.Canceled) {
				zlog.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	updates := make(chan market.Snapshot, 1024)
	ws := feed.NewWSClient(cfg.Feed.WSURL, zlog.Logger)
	go func() {
		defer close(updates)
		if err := ws.Run(ctx, func(snap market.Snapshot) {
			updates <- snap
		}); err != nil && !errors.Is(err, context.Canceled) {
			zlog.Error("market feed terminated", zap.Error(err))
		}
	}()

	notifySystemd(ctx, zlog)
	zlog.Info("runner started",
		zap.String("ws_url", cfg.Feed.WSURL),
		zap.Int("pairs", len(cfg.Pairs)),
		zap.Float64("initial_ars", cfg.InitialARS))

	if err := seq.Run(ctx, updates); err != nil {
		if errors.Is(err, execution.ErrUSDBalanceViolation) {
			// 定量缺陷导致的余额违规：停止交易并带错误码退出，交由宿主处理。
			zlog.Error("balance invariant violated, shutting down", zap.Error(err))
			log.Fatalf("fatal: %v", err)
		}
		if !errors.Is(err, context.Canceled) {
			log.Fatalf("sequencer stopped: %v", err)
		}
	}
	zlog.Info("runner stopped")
}

// notifySystemd 上报就绪并按需维持 watchdog 心跳。
func notifySystemd(ctx context.Context, zlog *logger.Logger) {
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		zlog.Warn("sd_notify failed", zap.Error(err))
	} else if ok {
		zlog.Info("sd_notify ready sent")
	}

	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}()
}
