package external

import (
	"context"
	"math/rand"
	"time"
)

// ScenarioBlackFriday is the one scenario label the stubs recognize.
// The X-Scenario header is free-form; it perturbs latency only and is
// passed explicitly to each stub call, never read from ambient state.
const ScenarioBlackFriday = "BlackFriday"

// LatencyProfile draws a delay of Base plus up to Jitter.
type LatencyProfile struct {
	Base   time.Duration
	Jitter time.Duration
}

func (p LatencyProfile) wait(ctx context.Context) error {
	d := p.Base
	if p.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
