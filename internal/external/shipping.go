package external

import (
	"context"
	"time"
)

// ShippingStub simulates a third-party shipping quote: flat 599 cents
// under a 5000-cent subtotal, free above. The address is carried through
// but never validated or geocoded.
type ShippingStub struct {
	Normal      LatencyProfile
	BlackFriday LatencyProfile
}

func NewShippingStub() *ShippingStub {
	return &ShippingStub{
		Normal:      LatencyProfile{Base: 80 * time.Millisecond, Jitter: 40 * time.Millisecond},
		BlackFriday: LatencyProfile{Base: 180 * time.Millisecond, Jitter: 220 * time.Millisecond},
	}
}

func (s *ShippingStub) Quote(ctx context.Context, address string, subtotalCents int, scenario string) (int, error) {
	if err := s.profile(scenario).wait(ctx); err != nil {
		return 0, err
	}
	if subtotalCents < 5000 {
		return 599, nil
	}
	return 0, nil
}

func (s *ShippingStub) profile(scenario string) LatencyProfile {
	if scenario == ScenarioBlackFriday {
		return s.BlackFriday
	}
	return s.Normal
}
