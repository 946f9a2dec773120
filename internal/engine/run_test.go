package engine

import (
	"context"
	"testing"
	"time"

	"bond-arb-go/market"
)

func TestRunConsumesUntilChannelClose(t *testing.T) {
	seq, _, _ := newTestSequencer(t, 0, 500, 0, nil, nil)
	ts := time.Date(2023, 5, 12, 11, 0, 0, 0, time.UTC)

	updates := make(chan market.Snapshot, 4)
	updates <- makeSnap(al30ARS, 995, 1000, 1000, 1000, ts)
	updates <- makeSnap(al30USD, 50, 51, 1000, 1000, ts)
	close(updates)

	if err := seq.Run(context.Background(), updates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := seq.GetStatistics().Ticks; got != 2 {
		t.Fatalf("expected 2 ticks got %d", got)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	seq, _, _ := newTestSequencer(t, 0, 500, 0, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := seq.Run(ctx, make(chan market.Snapshot)); err == nil {
		t.Fatalf("expected context error")
	}
}
