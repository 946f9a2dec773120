package strategy

import "bond-arb-go/market"

// DefaultFeeRate 市场费率（"Públicos - Obligaciones Negociables" 0.0100%）。
const DefaultFeeRate = 0.0001

// Detector 在全部有序债券对组合上计算含费隐含汇率，返回利润率最高的机会。
type Detector struct {
	registry *Registry
	feeRate  float64
}

func NewDetector(registry *Registry, feeRate float64) *Detector {
	if feeRate <= 0 {
		feeRate = DefaultFeeRate
	}
	return &Detector{registry: registry, feeRate: feeRate}
}

// FeeRate 返回探测所用的费率。
func (d *Detector) FeeRate() float64 { return d.feeRate }

// ImplicitFX 由债券价格计算隐含汇率（比索价/美元价）；美元价为 0 时返回 0。
func ImplicitFX(pesoPrice, dollarPrice float64) float64 {
	if dollarPrice == 0 {
		return 0
	}
	return pesoPrice / dollarPrice
}

// Detect 遍历所有 buy != sell 的有序组合，返回利润率严格最高的机会；
// 无任何方向成立时返回 nil。平局保留遍历顺序中先出现者。
func (d *Detector) Detect(books *market.Store) *Opportunity {
	pairs := d.registry.Pairs()
	var best *Opportunity
	bestProfit := -1.0
	for _, buy := range pairs {
		for _, sell := range pairs {
			if buy.Name == sell.Name {
				continue
			}
			opp := d.evaluate(books, buy, sell)
			if opp != nil && opp.ProfitPct > bestProfit {
				bestProfit = opp.ProfitPct
				best = opp
			}
		}
	}
	return best
}

// evaluate 评估单个方向：经 buy 对买入美元、经 sell 对卖出美元。
// 四腿任一最优档缺失则该方向不可评估。
func (d *Detector) evaluate(books *market.Store, buy, sell Pair) *Opportunity {
	pesoBuyBook, ok := books.Lookup(buy.PesoSecurity)
	if !ok {
		return nil
	}
	dollarBuyBook, ok := books.Lookup(buy.DollarSecurity)
	if !ok {
		return nil
	}
	pesoSellBook, ok := books.Lookup(sell.PesoSecurity)
	if !ok {
		return nil
	}
	dollarSellBook, ok := books.Lookup(sell.DollarSecurity)
	if !ok {
		return nil
	}

	pesoBuyOffer, ok := pesoBuyBook.BestOffer() // 买入比索债
	if !ok {
		return nil
	}
	dollarBuyBid, ok := dollarBuyBook.BestBid() // 卖出美元债
	if !ok {
		return nil
	}
	pesoSellBid, ok := pesoSellBook.BestBid() // 卖出比索债
	if !ok {
		return nil
	}
	dollarSellOffer, ok := dollarSellBook.BestOffer() // 买入美元债
	if !ok {
		return nil
	}

	fee := d.feeRate
	// 买方支付 price*(1+fee)，卖方收到 price*(1-fee)。
	pesoBuyFee := pesoBuyOffer.Price * (1 + fee)
	dollarBuyFee := dollarBuyBid.Price * (1 - fee)
	pesoSellFee := pesoSellBid.Price * (1 - fee)
	dollarSellFee := dollarSellOffer.Price * (1 + fee)

	fxBuy := ImplicitFX(pesoBuyFee, dollarBuyFee)
	fxSell := ImplicitFX(pesoSellFee, dollarSellFee)

	if !(fxBuy > 0 && fxSell > 0 && fxBuy < fxSell) {
		return nil
	}

	return &Opportunity{
		BuyPair:  buy.Name,
		SellPair: sell.Name,

		PesoBuySecurity:    buy.PesoSecurity,
		DollarBuySecurity:  buy.DollarSecurity,
		PesoSellSecurity:   sell.PesoSecurity,
		DollarSellSecurity: sell.DollarSecurity,

		PesoBuyPrice:    pesoBuyOffer.Price,
		DollarBuyPrice:  dollarBuyBid.Price,
		DollarSellPrice: dollarSellOffer.Price,
		PesoSellPrice:   pesoSellBid.Price,

		PesoBuyPriceFee:    pesoBuyFee,
		DollarBuyPriceFee:  dollarBuyFee,
		DollarSellPriceFee: dollarSellFee,
		PesoSellPriceFee:   pesoSellFee,

		PesoBuyVolume:    pesoBuyOffer.Volume,
		DollarBuyVolume:  dollarBuyBid.Volume,
		DollarSellVolume: dollarSellOffer.Volume,
		PesoSellVolume:   pesoSellBid.Volume,

		FXBuy:     fxBuy,
		FXSell:    fxSell,
		ProfitPct: (fxSell - fxBuy) / fxBuy * 100,
	}
}
