package market

import (
	"testing"
	"time"
)

func TestOrderBookReplaceAndBest(t *testing.T) {
	ob := NewOrderBook("AL30-0002-C-CT-ARS")
	ob.UpdateBids([]float64{995, 990, 985}, []float64{100, 200, 300})
	ob.UpdateOffers([]float64{1000, 1005}, []float64{50, 80})

	bid, ok := ob.BestBid()
	if !ok || bid.Price != 995 || bid.Volume != 100 {
		t.Fatalf("unexpected best bid %+v ok=%v", bid, ok)
	}
	offer, ok := ob.BestOffer()
	if !ok || offer.Price != 1000 || offer.Volume != 50 {
		t.Fatalf("unexpected best offer %+v ok=%v", offer, ok)
	}

	// 整侧替换：旧档位全部丢弃
	ob.UpdateBids([]float64{998}, []float64{10})
	bid, _ = ob.BestBid()
	if bid.Price != 998 || ob.Depth(SideBid) != 1 {
		t.Fatalf("replace did not drop stale levels: %+v depth=%d", bid, ob.Depth(SideBid))
	}
}

func TestOrderBookReplaceIdempotent(t *testing.T) {
	ob := NewOrderBook("GD30-0002-C-CT-ARS")
	prices := []float64{1195, 1190}
	volumes := []float64{100, 50}
	ob.UpdateBids(prices, volumes)
	ob.UpdateBids(prices, volumes)

	if ob.Depth(SideBid) != 2 {
		t.Fatalf("expected 2 bid levels got %d", ob.Depth(SideBid))
	}
	bid, _ := ob.BestBid()
	if bid.Price != 1195 || bid.Volume != 100 {
		t.Fatalf("unexpected best bid after re-apply %+v", bid)
	}
}

func TestOrderBookSkipsNonPositiveVolumes(t *testing.T) {
	ob := NewOrderBook("AL30D-0002-C-CT-USD")
	ob.UpdateOffers([]float64{51, 52, 53}, []float64{0, -5, 20})

	if ob.Depth(SideOffer) != 1 {
		t.Fatalf("expected 1 offer level got %d", ob.Depth(SideOffer))
	}
	offer, ok := ob.BestOffer()
	if !ok || offer.Price != 53 {
		t.Fatalf("unexpected best offer %+v ok=%v", offer, ok)
	}
}

func TestOrderBookDeplete(t *testing.T) {
	ob := NewOrderBook("AL30-0002-C-CT-ARS")
	ob.UpdateOffers([]float64{1000, 1005}, []float64{100, 50})

	// 部分扣减
	ob.Deplete(SideOffer, 1000, 30)
	offer, _ := ob.BestOffer()
	if offer.Volume != 70 {
		t.Fatalf("expected volume 70 got %f", offer.Volume)
	}

	// 扣到 <=0 整档删除
	ob.Deplete(SideOffer, 1000, 70)
	offer, _ = ob.BestOffer()
	if offer.Price != 1005 {
		t.Fatalf("expected next level 1005 got %f", offer.Price)
	}

	// 不存在的价位静默忽略
	ob.Deplete(SideOffer, 999, 10)
	if ob.Depth(SideOffer) != 1 {
		t.Fatalf("deplete at absent price mutated book: depth=%d", ob.Depth(SideOffer))
	}
}

func TestOrderBookDepleteOvershootRemovesLevel(t *testing.T) {
	ob := NewOrderBook("GD30D-0002-C-CT-USD")
	ob.UpdateBids([]float64{55}, []float64{10})
	ob.Deplete(SideBid, 55, 25)
	if _, ok := ob.BestBid(); ok {
		t.Fatalf("expected empty bid side after overshoot")
	}
}

func TestOrderBookSpreadAndEmptySides(t *testing.T) {
	ob := NewOrderBook("AL30-0002-C-CT-ARS")
	if _, ok := ob.BestBid(); ok {
		t.Fatalf("empty book should have no best bid")
	}
	if _, ok := ob.Spread(); ok {
		t.Fatalf("empty book should have no spread")
	}

	ob.UpdateBids([]float64{995}, []float64{100})
	if _, ok := ob.Spread(); ok {
		t.Fatalf("one-sided book should have no spread")
	}

	ob.UpdateOffers([]float64{1000}, []float64{50})
	spread, ok := ob.Spread()
	if !ok || spread != 5 {
		t.Fatalf("unexpected spread %f ok=%v", spread, ok)
	}
}

func TestOrderBookApplySnapshot(t *testing.T) {
	ob := NewOrderBook("AL30-0002-C-CT-ARS")
	ts := time.Date(2023, 5, 12, 11, 0, 0, 0, time.UTC)
	ob.Apply(Snapshot{
		Security:     "AL30-0002-C-CT-ARS",
		Time:         ts,
		BidPrices:    []float64{995, 990},
		BidVolumes:   []float64{100, 0},
		OfferPrices:  []float64{1000},
		OfferVolumes: []float64{50},
	})

	if ob.Depth(SideBid) != 1 || ob.Depth(SideOffer) != 1 {
		t.Fatalf("unexpected depths %d/%d", ob.Depth(SideBid), ob.Depth(SideOffer))
	}
	if !ob.LastUpdate().Equal(ts) {
		t.Fatalf("unexpected last update %v", ob.LastUpdate())
	}
}
