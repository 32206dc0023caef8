package external

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const (
	// DefaultToken is used when the caller omits a payment token.
	DefaultToken = "tok_demo"
	// DeclineToken makes the stub decline the charge, so the failure
	// path can be exercised end to end.
	DeclineToken = "tok_decline"
)

type Charge struct {
	Approved bool
	AuthID   string
}

// PaymentStub authorizes every charge except ones made with
// DeclineToken. A decline is a normal outcome, not an error, and is
// never retried here.
type PaymentStub struct {
	Normal      LatencyProfile
	BlackFriday LatencyProfile
}

func NewPaymentStub() *PaymentStub {
	return &PaymentStub{
		Normal:      LatencyProfile{Base: 120 * time.Millisecond, Jitter: 60 * time.Millisecond},
		BlackFriday: LatencyProfile{Base: 240 * time.Millisecond, Jitter: 220 * time.Millisecond},
	}
}

func (p *PaymentStub) Charge(ctx context.Context, token string, totalCents int, scenario string) (Charge, error) {
	if err := p.profile(scenario).wait(ctx); err != nil {
		return Charge{}, err
	}
	if token == DeclineToken {
		return Charge{Approved: false}, nil
	}
	return Charge{
		Approved: true,
		AuthID:   fmt.Sprintf("auth_%d", rand.Intn(90000)+10000),
	}, nil
}

func (p *PaymentStub) profile(scenario string) LatencyProfile {
	if scenario == ScenarioBlackFriday {
		return p.BlackFriday
	}
	return p.Normal
}
