package checkout

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"

	"storelab-be/internal/catalog"
	"storelab-be/internal/external"
	"storelab-be/internal/orders"
)

// ErrPaymentDeclined is returned when the gateway refuses the charge.
// The charge is reported, never retried.
var ErrPaymentDeclined = errors.New("payment declined")

type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type Request struct {
	UserEmail    string `json:"user_email"`
	Items        []Line `json:"items"`
	CouponCode   string `json:"coupon_code,omitempty"`
	Address      string `json:"address,omitempty"`
	PaymentToken string `json:"payment_token,omitempty"`
}

type Receipt struct {
	OrderID       string
	SubtotalCents int
	DiscountCents int
	ShippingCents int
	TaxCents      int
	TotalCents    int
	Status        orders.Status
	AuthID        string
}

// Processor runs a full checkout for one cart. The scenario label is
// request-scoped configuration for the downstream stubs and is passed
// explicitly, never read from ambient state.
type Processor interface {
	Checkout(ctx context.Context, req Request, scenario string) (Receipt, error)
}

type ProductSource interface {
	ByID(ctx context.Context, id int64) (*catalog.Product, error)
	ByIDs(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)
}

type ShippingQuoter interface {
	Quote(ctx context.Context, address string, subtotalCents int, scenario string) (int, error)
}

type TaxCalculator interface {
	Compute(ctx context.Context, address string, subtotalCents int) (int, error)
}

type PaymentGateway interface {
	Charge(ctx context.Context, token string, totalCents int, scenario string) (external.Charge, error)
}

type OrderStore interface {
	Commit(ctx context.Context, d orders.Draft) (string, error)
}

type Mailer interface {
	SendConfirmation(ctx context.Context, email, orderID string, totalCents int) error
}

type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

func paymentToken(req Request) string {
	if req.PaymentToken == "" {
		return external.DefaultToken
	}
	return req.PaymentToken
}
