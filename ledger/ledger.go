package ledger

import "sync"

// Currency 标识账本币种。
type Currency string

const (
	ARS Currency = "ARS"
	USD Currency = "USD"
)

// Snapshot 为某一时刻的两币种余额。
type Snapshot struct {
	ARS float64
	USD float64
}

// Ledger 维护 ARS/USD 两个标量余额。仅结算引擎按腿修改。
type Ledger struct {
	mu  sync.RWMutex
	ars float64
	usd float64
}

// New 以初始 ARS 余额创建账本；USD 初始为零。
func New(initialARS float64) *Ledger {
	return &Ledger{ars: initialARS}
}

// Apply 对指定币种余额叠加增量（卖出为正、买入为负）。
func (l *Ledger) Apply(c Currency, delta float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c == USD {
		l.usd += delta
		return
	}
	l.ars += delta
}

func (l *Ledger) ARS() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ars
}

func (l *Ledger) USD() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.usd
}

// Balances 返回余额快照。
func (l *Ledger) Balances() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{ARS: l.ars, USD: l.usd}
}
