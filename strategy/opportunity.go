package strategy

// Opportunity 描述一次跨对套利机会：经由 buy 对买入美元、经由 sell 对卖出美元。
// 仅在一次 探测->定量->执行 周期内存在，不做持久化。
type Opportunity struct {
	BuyPair  string
	SellPair string

	PesoBuySecurity    string
	DollarBuySecurity  string
	PesoSellSecurity   string
	DollarSellSecurity string

	// 原始盘口价（用于下单与簿内扣减）。
	PesoBuyPrice    float64
	DollarBuyPrice  float64
	DollarSellPrice float64
	PesoSellPrice   float64

	// 含手续费价（用于收益计算）。
	PesoBuyPriceFee    float64
	DollarBuyPriceFee  float64
	DollarSellPriceFee float64
	PesoSellPriceFee   float64

	// 四腿各自最优档可用量（名义）。
	PesoBuyVolume    float64
	DollarBuyVolume  float64
	DollarSellVolume float64
	PesoSellVolume   float64

	FXBuy     float64 // 买入美元的含费隐含汇率
	FXSell    float64 // 卖出美元的含费隐含汇率
	ProfitPct float64 // (FXSell-FXBuy)/FXBuy*100
}

// Signature 返回用于去重跳过日志的机会签名。
type Signature struct {
	BuyPair   string
	SellPair  string
	ProfitPct float64
}

func (o *Opportunity) Signature() Signature {
	return Signature{BuyPair: o.BuyPair, SellPair: o.SellPair, ProfitPct: o.ProfitPct}
}
