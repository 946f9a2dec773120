package market

import (
	"sync"
	"time"
)

// Side 标识订单簿的一侧。
type Side int

const (
	SideBid Side = iota
	SideOffer
)

func (s Side) String() string {
	if s == SideBid {
		return "BID"
	}
	return "OFFER"
}

// Level 表示一个价位档：价格与挂单量。
type Level struct {
	Price  float64
	Volume float64
}

// OrderBook 维护单一证券的价格->数量映射，买卖两侧各一份。
// 不缓存最优价，best bid/offer 每次扫描计算。
type OrderBook struct {
	mu         sync.RWMutex
	security   string
	bids       map[float64]float64 // price -> volume, volume > 0
	offers     map[float64]float64
	lastUpdate time.Time
}

func NewOrderBook(security string) *OrderBook {
	return &OrderBook{
		security: security,
		bids:     make(map[float64]float64),
		offers:   make(map[float64]float64),
	}
}

// Security 返回该订单簿对应的证券标识。
func (ob *OrderBook) Security() string { return ob.security }

// UpdateBids 整侧替换买档；非正数量的档位跳过。
func (ob *OrderBook) UpdateBids(prices, volumes []float64) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.bids = rebuildSide(prices, volumes)
}

// UpdateOffers 整侧替换卖档；非正数量的档位跳过。
func (ob *OrderBook) UpdateOffers(prices, volumes []float64) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.offers = rebuildSide(prices, volumes)
}

func rebuildSide(prices, volumes []float64) map[float64]float64 {
	side := make(map[float64]float64, len(prices))
	n := len(prices)
	if len(volumes) < n {
		n = len(volumes)
	}
	for i := 0; i < n; i++ {
		if volumes[i] > 0 {
			side[prices[i]] = volumes[i]
		}
	}
	return side
}

// Apply 应用一条完整快照：替换两侧并记录时间戳。
func (ob *OrderBook) Apply(snap Snapshot) {
	ob.UpdateBids(snap.BidPrices, snap.BidVolumes)
	ob.UpdateOffers(snap.OfferPrices, snap.OfferVolumes)
	ob.mu.Lock()
	ob.lastUpdate = snap.Time
	ob.mu.Unlock()
}

// BestBid 返回最高买价档；买侧为空时 ok 为 false。
func (ob *OrderBook) BestBid() (Level, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return bestOf(ob.bids, func(p, best float64) bool { return p > best })
}

// BestOffer 返回最低卖价档；卖侧为空时 ok 为 false。
func (ob *OrderBook) BestOffer() (Level, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return bestOf(ob.offers, func(p, best float64) bool { return p < best })
}

func bestOf(side map[float64]float64, better func(p, best float64) bool) (Level, bool) {
	var lv Level
	found := false
	for p, v := range side {
		if !found || better(p, lv.Price) {
			lv = Level{Price: p, Volume: v}
			found = true
		}
	}
	return lv, found
}

// Deplete 从指定价位扣减成交量；价位不存在时静默忽略（由调用方记录），
// 扣减后数量 <= 0 则整档删除，保证簿内不残留非正数量。
func (ob *OrderBook) Deplete(side Side, price, quantity float64) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	levels := ob.bids
	if side == SideOffer {
		levels = ob.offers
	}
	current, ok := levels[price]
	if !ok {
		return
	}
	remaining := current - quantity
	if remaining <= 0 {
		delete(levels, price)
		return
	}
	levels[price] = remaining
}

// Spread 返回最优卖价减最优买价；任一侧为空时 ok 为 false。
func (ob *OrderBook) Spread() (float64, bool) {
	bid, okB := ob.BestBid()
	offer, okO := ob.BestOffer()
	if !okB || !okO {
		return 0, false
	}
	return offer.Price - bid.Price, true
}

// LastUpdate 返回最近一次快照时间。
func (ob *OrderBook) LastUpdate() time.Time {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.lastUpdate
}

// Depth 返回指定侧当前档位数。
func (ob *OrderBook) Depth(side Side) int {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	if side == SideBid {
		return len(ob.bids)
	}
	return len(ob.offers)
}

// Levels 返回指定侧全部档位的拷贝，顺序不保证。
func (ob *OrderBook) Levels(side Side) []Level {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	src := ob.bids
	if side == SideOffer {
		src = ob.offers
	}
	out := make([]Level, 0, len(src))
	for p, v := range src {
		out = append(out, Level{Price: p, Volume: v})
	}
	return out
}
