package engine

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"bond-arb-go/execution"
	"bond-arb-go/infrastructure/logger"
	"bond-arb-go/ledger"
	"bond-arb-go/market"
	"bond-arb-go/metrics"
	"bond-arb-go/strategy"
)

// State 时序器状态
type State int

const (
	// StateIdle 等待下一条行情
	StateIdle State = iota
	// StateDetecting 正在探测套利机会
	StateDetecting
	// StateSizing 正在求解可交易名义量
	StateSizing
	// StateExecuting 正在执行四腿结算
	StateExecuting
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDetecting:
		return "DETECTING"
	case StateSizing:
		return "SIZING"
	case StateExecuting:
		return "EXECUTING"
	default:
		return "UNKNOWN"
	}
}

// DefaultMaxIterations 单 tick 内允许的最大执行次数（防止自引用数据的无限套利循环）。
const DefaultMaxIterations = 100

// Config 时序器配置
type Config struct {
	MaxIterations int // 单 tick 执行上限，<=0 取 DefaultMaxIterations
}

// Components 时序器依赖组件
type Components struct {
	Books      *market.Store
	Detector   *strategy.Detector
	Ledger     *ledger.Ledger
	Settlement *execution.Engine
	Logger     *logger.Logger
}

// Statistics 运行统计
type Statistics struct {
	StartTime       time.Time
	Ticks           int64
	BufferedApplied int64 // 周期内到达、延后应用的快照数
	Executions      int64
	Skips           int64 // 实际写出的跳过通知
	SuppressedSkips int64 // 被去重抑制的跳过通知
	CapAnomalies    int64
	TotalPnLARS     float64
	TotalPnLUSD     float64
	TotalLatency    time.Duration
	LastTick        time.Time
}

// Sequencer 驱动 行情应用 -> 探测 -> 定量 -> 结算 的单线程循环。
// 余额与订单簿只归该控制流所有；周期进行中到达的行情按序缓存，
// 回到空闲后仅做簿替换补齐，再追加一轮探测循环。
type Sequencer struct {
	books      *market.Store
	detector   *strategy.Detector
	ledger     *ledger.Ledger
	settlement *execution.Engine
	log        *logger.Logger

	maxIterations int

	state   State
	busy    bool
	pending []market.Snapshot

	// 跳过日志去重：同一 (买对, 卖对, 利润率) 签名只报一次，
	// 直到出现不同机会或一次成功执行。归时序器实例所有，不做包级状态。
	lastSkip *strategy.Signature

	mu    sync.RWMutex
	stats Statistics
}

// New 创建时序器。
func New(cfg Config, c Components) (*Sequencer, error) {
	if c.Books == nil || c.Detector == nil || c.Ledger == nil || c.Settlement == nil {
		return nil, errors.New("books, detector, ledger and settlement are required")
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	return &Sequencer{
		books:         c.Books,
		detector:      c.Detector,
		ledger:        c.Ledger,
		settlement:    c.Settlement,
		log:           c.Logger,
		maxIterations: maxIter,
		state:         StateIdle,
		stats:         Statistics{StartTime: time.Now()},
	}, nil
}

// OnSnapshot 处理一条按时间序到达的行情快照。
// 周期进行中再次进入时只入队；返回的错误仅可能是结算的致命余额违规。
func (s *Sequencer) OnSnapshot(snap market.Snapshot) error {
	if s.busy {
		s.pending = append(s.pending, snap)
		return nil
	}
	s.busy = true
	defer func() {
		s.busy = false
		s.setState(StateIdle)
	}()

	s.applySnapshot(snap, false)
	if err := s.runCycle(snap.Time); err != nil {
		return err
	}

	// 补齐周期内到达的行情：按到达序只做簿替换，再跑一轮完整探测循环。
	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		for _, queued := range batch {
			s.applySnapshot(queued, true)
		}
		if err := s.runCycle(batch[len(batch)-1].Time); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) applySnapshot(snap market.Snapshot, buffered bool) {
	s.books.Apply(snap)
	metrics.TicksProcessed.Inc()
	s.mu.Lock()
	s.stats.Ticks++
	if buffered {
		s.stats.BufferedApplied++
	}
	s.stats.LastTick = snap.Time
	s.mu.Unlock()
}

// runCycle 反复 探测->定量->结算 直到无机会、无可交易量或达到执行上限。
func (s *Sequencer) runCycle(ts time.Time) error {
	s.setState(StateDetecting)
	s.mu.RLock()
	maxIter := s.maxIterations
	s.mu.RUnlock()
	executed := 0
	for {
		opp := s.detector.Detect(s.books)
		if opp == nil {
			return nil
		}

		s.setState(StateSizing)
		n := strategy.MaxNominals(opp, strategy.Balances{
			ARS: s.ledger.ARS(),
			USD: s.ledger.USD(),
		}, s.detector.FeeRate())
		if n == 0 {
			s.recordSkip(opp)
			return nil
		}

		s.setState(StateExecuting)
		report, err := s.settlement.Execute(opp, n, ts)
		if err != nil {
			// 违规结算不计入成交统计，只留错误痕迹。
			s.log.LogError(err, map[string]interface{}{
				"buy_pair":  opp.BuyPair,
				"sell_pair": opp.SellPair,
				"nominals":  n,
			})
			return err
		}
		s.recordExecution(opp, report)

		executed++
		if executed >= maxIter {
			// 达到上限说明数据可能自引用，记为异常而非静默截断。
			s.log.Warn("arbitrage iteration cap reached",
				zap.Int("max_iterations", maxIter))
			metrics.IterationCapHit.Inc()
			s.mu.Lock()
			s.stats.CapAnomalies++
			s.mu.Unlock()
			return nil
		}
		s.setState(StateDetecting)
	}
}

// recordSkip 写出跳过通知；与上一条签名相同时抑制。
func (s *Sequencer) recordSkip(opp *strategy.Opportunity) {
	sig := opp.Signature()
	if s.lastSkip != nil && *s.lastSkip == sig {
		s.mu.Lock()
		s.stats.SuppressedSkips++
		s.mu.Unlock()
		return
	}
	s.lastSkip = &sig
	metrics.OpportunitiesSkipped.Inc()
	s.mu.Lock()
	s.stats.Skips++
	s.mu.Unlock()
	s.log.LogSkip("arb_opportunity_skipped", map[string]interface{}{
		"buy_pair":   opp.BuyPair,
		"sell_pair":  opp.SellPair,
		"profit_pct": opp.ProfitPct,
		"ars":        s.ledger.ARS(),
		"usd":        s.ledger.USD(),
		"reason":     "insufficient volume or balance",
	})
}

func (s *Sequencer) recordExecution(opp *strategy.Opportunity, report execution.Report) {
	s.lastSkip = nil
	metrics.TradesExecuted.Inc()
	metrics.LastProfitPct.Set(opp.ProfitPct)
	metrics.SettlementLatency.Observe(report.Latency.Seconds())
	metrics.UpdateBalances(report.After.ARS, report.After.USD)

	s.mu.Lock()
	s.stats.Executions++
	s.stats.TotalPnLARS += report.PnLARS
	s.stats.TotalPnLUSD += report.PnLUSD
	s.stats.TotalLatency += report.Latency
	s.mu.Unlock()

	s.log.LogTrade("arb_executed", map[string]interface{}{
		"buy_pair":            opp.BuyPair,
		"sell_pair":           opp.SellPair,
		"fx_buy":              opp.FXBuy,
		"fx_sell":             opp.FXSell,
		"profit_pct":          opp.ProfitPct,
		"nominals":            report.Nominals,
		"fx_volume":           report.FXVolume,
		"peso_buy_cost":       report.PesoBuyCost,
		"dollar_buy_proceeds": report.DollarBuyProceeds,
		"dollar_sell_cost":    report.DollarSellCost,
		"peso_sell_proceeds":  report.PesoSellProceeds,
		"net_profit_pesos":    report.NetProfitPesos,
		"return_pct":          report.ReturnPct,
		"pnl_ars":             report.PnLARS,
		"pnl_usd":             report.PnLUSD,
		"ars":                 report.After.ARS,
		"usd":                 report.After.USD,
		"latency_us":          report.Latency.Microseconds(),
	})
}

func (s *Sequencer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// SetMaxIterations 热更新单 tick 执行上限（配置重载时调用）。
func (s *Sequencer) SetMaxIterations(n int) {
	if n <= 0 {
		n = DefaultMaxIterations
	}
	s.mu.Lock()
	s.maxIterations = n
	s.mu.Unlock()
}

// GetState 返回当前状态。
func (s *Sequencer) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// GetStatistics 返回统计信息快照。
func (s *Sequencer) GetStatistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Balances 返回账本余额快照。
func (s *Sequencer) Balances() ledger.Snapshot {
	return s.ledger.Balances()
}
