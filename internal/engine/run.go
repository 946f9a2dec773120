package engine

import (
	"context"

	"bond-arb-go/market"
)

// Run 依次消费通道中的行情快照，直到通道关闭或上下文取消。
// 结算返回的致命错误会中断消费并原样上抛。
func (s *Sequencer) Run(ctx context.Context, updates <-chan market.Snapshot) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if err := s.OnSnapshot(snap); err != nil {
				return err
			}
		}
	}
}
