package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bond-arb-go/market"
)

// wsSnapshot 为行情 WS 推送的 JSON 结构：每侧最多五档 [price, volume] 对。
type wsSnapshot struct {
	Security string       `json:"security"`
	Time     time.Time    `json:"time"`
	Bids     [][2]float64 `json:"bids"`
	Offers   [][2]float64 `json:"offers"`
}

// WSClient 连接行情 WS 并把快照消息转为 market.Snapshot 下发。
// 仅提供最小骨架：连接 + 读取 + 解析；重连由调用方决定。
type WSClient struct {
	URL         string
	Dialer      *websocket.Dialer
	Logger      *zap.Logger
	ReadTimeout time.Duration
}

func NewWSClient(url string, log *zap.Logger) *WSClient {
	return &WSClient{
		URL:    url,
		Dialer: websocket.DefaultDialer,
		Logger: log,
	}
}

// Run 阻塞读取消息并逐条回调，直到连接断开或上下文取消。
func (c *WSClient) Run(ctx context.Context, onSnapshot func(market.Snapshot)) error {
	if c.URL == "" {
		return fmt.Errorf("ws url required")
	}
	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.URL, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		if c.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(c.ReadTimeout))
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		var raw wsSnapshot
		if err := json.Unmarshal(message, &raw); err != nil {
			if c.Logger != nil {
				c.Logger.Warn("ws message dropped", zap.Error(err))
			}
			continue
		}
		if raw.Security == "" {
			continue
		}
		if onSnapshot != nil {
			onSnapshot(toSnapshot(raw))
		}
	}
}

func toSnapshot(raw wsSnapshot) market.Snapshot {
	snap := market.Snapshot{Security: raw.Security, Time: raw.Time}
	for _, lv := range raw.Bids {
		snap.BidPrices = append(snap.BidPrices, lv[0])
		snap.BidVolumes = append(snap.BidVolumes, lv[1])
	}
	for _, lv := range raw.Offers {
		snap.OfferPrices = append(snap.OfferPrices, lv[0])
		snap.OfferVolumes = append(snap.OfferVolumes, lv[1])
	}
	return snap
}
