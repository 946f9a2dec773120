package order

import "strings"

// Side 标识下单方向。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order 表示对外提交的一笔委托（单腿）。
type Order struct {
	ID       string
	Security string
	Side     Side
	Price    float64 // 原始盘口价（不含费）
	Quantity float64 // 名义量
}

// Status 表示提交结果状态。
type Status string

const (
	StatusFilled Status = "FILLED"
	StatusFailed Status = "FAILED"
)

// Result 为提交结果的显式 Ok/Failed 变体；失败不通过异常传播。
type Result struct {
	OrderID string
	Status  Status
	Err     error
}

// Ok 报告委托是否成交。
func (r Result) Ok() bool { return r.Status == StatusFilled }

// CurrencyOf 由证券标识推断结算币种：以 USD 结尾或含 "D-" 记为 USD，
// 其余记为 ARS（如 AL30-0002-C-CT-ARS / AL30D-0002-C-CT-USD）。
func CurrencyOf(security string) string {
	if strings.HasSuffix(security, "USD") || strings.Contains(security, "D-") {
		return "USD"
	}
	return "ARS"
}
