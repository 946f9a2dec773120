package strategy

import "math"

// Balances 为求解器输入的两币种余额视图。
type Balances struct {
	ARS float64
	USD float64
}

// MaxNominals 计算四腿可同时成交的最大整数名义量。
//
// 约束：四腿各自最优档深度、ARS 余额覆盖腿 1 买入成本、
// USD 余额加上腿 2 的美元所得覆盖腿 3 的美元支出
// （n*(dollarSellCost - dollarBuyProceeds) <= usd，对 n 自洽求解）。
// 各约束先保留连续上界，取最小值后只截断一次；
// 逐约束先取整会系统性低估容量。结果 0 表示无可交易量。
func MaxNominals(opp *Opportunity, bal Balances, feeRate float64) int {
	if opp == nil {
		return 0
	}
	if feeRate <= 0 {
		feeRate = DefaultFeeRate
	}

	bound := opp.PesoBuyVolume
	if opp.DollarBuyVolume < bound {
		bound = opp.DollarBuyVolume
	}
	if opp.DollarSellVolume < bound {
		bound = opp.DollarSellVolume
	}
	if opp.PesoSellVolume < bound {
		bound = opp.PesoSellVolume
	}

	// 腿 1：ARS 余额约束，成本按含费原始盘口价计。
	pesoBuyCost := opp.PesoBuyPrice * (1 + feeRate)
	if pesoBuyCost > 0 {
		byARS := bal.ARS / pesoBuyCost
		if byARS < bound {
			bound = byARS
		}
	}

	// 腿 3：USD 余额约束。腿 2 卖出美元债的所得在同一机会内即时可用，
	// 因此净占用为每名义 (dollarSellCost - dollarBuyProceeds)。
	dollarBuyProceeds := opp.DollarBuyPrice * (1 - feeRate)
	dollarSellCost := opp.DollarSellPrice * (1 + feeRate)
	usdNetPerNominal := dollarSellCost - dollarBuyProceeds
	if usdNetPerNominal > 0 {
		if bal.USD < 0 {
			return 0
		}
		byUSD := bal.USD / usdNetPerNominal
		if byUSD < bound {
			bound = byUSD
		}
	}

	n := int(math.Floor(bound))
	if n < 1 {
		return 0
	}
	return n
}
