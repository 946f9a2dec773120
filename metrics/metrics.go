// Package metrics provides Prometheus metrics for the arbitrage simulator
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TicksProcessed 已处理的行情快照数
	TicksProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_ticks_processed_total",
		Help: "Number of market snapshots applied",
	})

	// TradesExecuted 已执行的套利次数
	TradesExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_trades_executed_total",
		Help: "Number of four-leg arbitrage executions",
	})

	// OpportunitiesSkipped 因余额/深度不足被跳过的机会数（去重后）
	OpportunitiesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_opportunities_skipped_total",
		Help: "Number of opportunities skipped for zero tradable size",
	})

	// IterationCapHit 单 tick 内达到迭代上限的次数
	IterationCapHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_iteration_cap_hit_total",
		Help: "Number of ticks that hit the per-tick execution cap",
	})

	// BalanceARS 当前 ARS 余额
	BalanceARS = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_balance_ars",
		Help: "Current ARS ledger balance",
	})

	// BalanceUSD 当前 USD 余额
	BalanceUSD = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_balance_usd",
		Help: "Current USD ledger balance",
	})

	// LastProfitPct 最近一次执行机会的利润率
	LastProfitPct = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_last_profit_pct",
		Help: "Profit margin of the last executed opportunity",
	})

	// SettlementLatency 四腿结算耗时
	SettlementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_settlement_latency_seconds",
		Help:    "Wall-clock latency of a four-leg settlement",
		Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
	})
)

// UpdateBalances 刷新余额 gauge
func UpdateBalances(ars, usd float64) {
	BalanceARS.Set(ars)
	BalanceUSD.Set(usd)
}

// StartMetricsServer 启动Prometheus指标服务器
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
