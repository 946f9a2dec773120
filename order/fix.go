package order

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway 提供对外委托提交抽象（结算引擎的外部协作方）。
type Gateway interface {
	Place(o Order) Result
}

// FIXGateway 为 FIX 通道占位实现：总是报告成交。
// 模拟"我们永远是市场里最快的"这一显式简化。
type FIXGateway struct {
	Logger *zap.Logger
}

// Place 登记委托并返回 FILLED。委托 ID 缺省时生成 uuid。
func (g *FIXGateway) Place(o Order) Result {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if g.Logger != nil {
		g.Logger.Info("fix_order_sent",
			zap.String("order_id", o.ID),
			zap.String("security", o.Security),
			zap.String("side", string(o.Side)),
			zap.Float64("price", o.Price),
			zap.Float64("quantity", o.Quantity),
			zap.Float64("notional", o.Price*o.Quantity))
	}
	return Result{OrderID: o.ID, Status: StatusFilled}
}
