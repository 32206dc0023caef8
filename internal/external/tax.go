package external

import (
	"context"
	"time"
)

// TaxStub computes a fixed 8% of the subtotal regardless of address.
// No jurisdiction logic.
type TaxStub struct {
	Delay LatencyProfile
}

func NewTaxStub() *TaxStub {
	return &TaxStub{Delay: LatencyProfile{Base: 40 * time.Millisecond}}
}

func (t *TaxStub) Compute(ctx context.Context, address string, subtotalCents int) (int, error) {
	if err := t.Delay.wait(ctx); err != nil {
		return 0, err
	}
	return subtotalCents * 8 / 100, nil
}
