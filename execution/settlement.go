package execution

import (
	"errors"
	"fmt"
	"time"

	"bond-arb-go/infrastructure/logger"
	"bond-arb-go/ledger"
	"bond-arb-go/market"
	"bond-arb-go/order"
	"bond-arb-go/strategy"
)

// ErrUSDBalanceViolation 表示结算后 USD 余额为负。
// 正确的定量求解下不可达；一旦出现说明定量存在缺陷，按致命错误上抛，
// 由宿主程序决定停机或恢复，核心不终止进程。
var ErrUSDBalanceViolation = errors.New("negative USD balance after settlement")

// LegReport 记录单腿执行明细。
type LegReport struct {
	Security  string
	Currency  ledger.Currency
	Side      order.Side
	Price     float64 // 原始盘口价
	Quantity  float64
	Notional  float64 // price * quantity
	OrderID   string
	Submitted bool // 提交是否报告成交
	Latency   time.Duration
}

// Report 汇总一次四腿套利的执行结果。
type Report struct {
	Timestamp time.Time
	Nominals  int
	FXVolume  float64 // 实际成交的美元量

	PesoBuyCost       float64 // 含费
	DollarBuyProceeds float64
	DollarSellCost    float64
	PesoSellProceeds  float64
	NetProfitPesos    float64
	ReturnPct         float64

	PnLARS float64 // 结算前后余额差
	PnLUSD float64
	After  ledger.Snapshot

	Legs    [4]LegReport
	Latency time.Duration
}

// Engine 结算引擎：按固定顺序执行四腿，逐腿更新余额并扣减簿内档位。
type Engine struct {
	gateway order.Gateway
	books   *market.Store
	ledger  *ledger.Ledger
	log     *logger.Logger
	feeRate float64
}

func NewEngine(gateway order.Gateway, books *market.Store, led *ledger.Ledger, log *logger.Logger, feeRate float64) *Engine {
	if feeRate <= 0 {
		feeRate = strategy.DefaultFeeRate
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{gateway: gateway, books: books, ledger: led, log: log, feeRate: feeRate}
}

// Execute 以 n 个名义执行机会的四条腿，返回执行报告。
// 提交失败只记录不回滚（视为总能成交的显式简化）；
// 结算后 USD 为负返回 ErrUSDBalanceViolation。
func (e *Engine) Execute(opp *strategy.Opportunity, n int, ts time.Time) (Report, error) {
	if opp == nil || n <= 0 {
		return Report{}, fmt.Errorf("cannot execute trade with %d nominals", n)
	}

	before := e.ledger.Balances()
	qty := float64(n)
	start := time.Now()

	report := Report{
		Timestamp: ts,
		Nominals:  n,
		FXVolume:  qty * minOf(opp.DollarBuyPriceFee, opp.DollarSellPriceFee),

		PesoBuyCost:       qty * opp.PesoBuyPriceFee,
		DollarBuyProceeds: qty * opp.DollarBuyPriceFee,
		DollarSellCost:    qty * opp.DollarSellPriceFee,
		PesoSellProceeds:  qty * opp.PesoSellPriceFee,
	}
	report.NetProfitPesos = report.PesoSellProceeds - report.PesoBuyCost
	if report.PesoBuyCost > 0 {
		report.ReturnPct = report.NetProfitPesos / report.PesoBuyCost * 100
	}

	// 四腿固定顺序：买比索债(买对)、卖美元债(买对)、买美元债(卖对)、卖比索债(卖对)。
	report.Legs[0] = e.executeLeg(opp.PesoBuySecurity, order.SideBuy, opp.PesoBuyPrice, qty, ts, market.SideOffer)
	report.Legs[1] = e.executeLeg(opp.DollarBuySecurity, order.SideSell, opp.DollarBuyPrice, qty, ts, market.SideBid)
	report.Legs[2] = e.executeLeg(opp.DollarSellSecurity, order.SideBuy, opp.DollarSellPrice, qty, ts, market.SideOffer)
	report.Legs[3] = e.executeLeg(opp.PesoSellSecurity, order.SideSell, opp.PesoSellPrice, qty, ts, market.SideBid)

	report.Latency = time.Since(start)
	report.After = e.ledger.Balances()
	report.PnLARS = report.After.ARS - before.ARS
	report.PnLUSD = report.After.USD - before.USD

	if report.After.USD < 0 {
		return report, fmt.Errorf("%w: %.2f", ErrUSDBalanceViolation, report.After.USD)
	}
	return report, nil
}

// executeLeg 执行单腿：更新余额、提交委托、扣减簿内档位。
func (e *Engine) executeLeg(security string, side order.Side, price, qty float64, ts time.Time, bookSide market.Side) LegReport {
	start := time.Now()
	pxq := price * qty
	fees := pxq * e.feeRate
	currency := ledger.Currency(order.CurrencyOf(security))

	// 卖出收到 pxq - fees，买入支出 pxq + fees；币种由证券标识决定。
	if side == order.SideSell {
		e.ledger.Apply(currency, pxq-fees)
	} else {
		e.ledger.Apply(currency, -(pxq + fees))
	}

	result := e.gateway.Place(order.Order{
		Security: security,
		Side:     side,
		Price:    price,
		Quantity: qty,
	})
	if !result.Ok() {
		// 提交失败不回滚余额与簿：按"总能成交"的简化继续，仅留痕。
		fields := map[string]interface{}{
			"security": security,
			"side":     string(side),
			"price":    price,
			"quantity": qty,
		}
		if result.Err != nil {
			fields["cause"] = result.Err.Error()
		}
		e.log.LogSkip("fix_submission_failed", fields)
	}

	book, ok := e.books.Lookup(security)
	if ok {
		book.Deplete(bookSide, price, qty)
	} else {
		e.log.LogSkip("deplete_book_missing", map[string]interface{}{"security": security})
	}

	leg := LegReport{
		Security:  security,
		Currency:  currency,
		Side:      side,
		Price:     price,
		Quantity:  qty,
		Notional:  pxq,
		OrderID:   result.OrderID,
		Submitted: result.Ok(),
		Latency:   time.Since(start),
	}

	e.log.LogTrade("trade_leg", map[string]interface{}{
		"timestamp": ts.Format("2006-01-02 15:04:05.000000"),
		"security":  security,
		"currency":  string(currency),
		"side":      string(side),
		"price":     price,
		"volume":    qty,
		"pxq":       pxq,
	})
	return leg
}

func minOf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
