package market

import "time"

// Snapshot 表示一条行情快照：某证券两侧最多五档的整体替换。
// 价格与数量为平行数组，由 feed 层解析好后传入。
type Snapshot struct {
	Security     string
	Time         time.Time
	BidPrices    []float64
	BidVolumes   []float64
	OfferPrices  []float64
	OfferVolumes []float64
}
