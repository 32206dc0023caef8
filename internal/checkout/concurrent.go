package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"storelab-be/internal/catalog"
	"storelab-be/internal/inventory"
	kafkax "storelab-be/internal/kafka"
	"storelab-be/internal/logger"
	"storelab-be/internal/orders"
	"storelab-be/internal/pricing"
)

// Concurrent is the optimized variant behind /api/v2. Products and
// inventory are fetched with one batched read each, the three
// independent cost calculations run together and are gathered before
// charging, and the confirmation mail is offloaded as an event.
type Concurrent struct {
	Products  ProductSource
	Inventory inventory.Resolver // batched strategy
	Coupons   pricing.Resolver   // predicate strategy
	Shipping  ShippingQuoter
	Tax       TaxCalculator
	Payments  PaymentGateway
	Orders    OrderStore
	Events    EventPublisher // optional
	Service   string         // producer name on emitted events
}

func (c *Concurrent) Checkout(ctx context.Context, req Request, scenario string) (Receipt, error) {
	ids := make([]int64, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductID)
	}

	prods, err := c.Products.ByIDs(ctx, ids)
	if err != nil {
		return Receipt{}, err
	}
	onHand, err := c.Inventory.OnHandMany(ctx, ids)
	if err != nil {
		return Receipt{}, err
	}

	subtotal := 0
	lines := make([]orders.Item, 0, len(req.Items))
	for _, it := range req.Items {
		p, ok := prods[it.ProductID]
		if !ok {
			return Receipt{}, catalog.ErrProductNotFound
		}
		if onHand[it.ProductID] < it.Quantity {
			return Receipt{}, &orders.OutOfStockError{
				ProductID: p.ID, Requested: it.Quantity, Available: onHand[it.ProductID],
			}
		}
		subtotal += p.PriceCents * it.Quantity
		lines = append(lines, orders.Item{ProductID: p.ID, Quantity: it.Quantity, UnitPriceCents: p.PriceCents})
	}

	// discount, shipping and tax are independent: issue all three and
	// suspend once, so this leg costs max() rather than sum()
	var discount, shipping, tax int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		discount, err = c.Coupons.Discount(gctx, subtotal, req.CouponCode)
		return err
	})
	g.Go(func() error {
		var err error
		shipping, err = c.Shipping.Quote(gctx, req.Address, subtotal, scenario)
		return err
	})
	g.Go(func() error {
		var err error
		tax, err = c.Tax.Compute(gctx, req.Address, subtotal)
		return err
	})
	if err := g.Wait(); err != nil {
		return Receipt{}, err
	}
	total := subtotal - discount + shipping + tax

	ch, err := c.Payments.Charge(ctx, paymentToken(req), total, scenario)
	if err != nil {
		return Receipt{}, err
	}
	if !ch.Approved {
		return Receipt{}, ErrPaymentDeclined
	}

	orderID, err := c.Orders.Commit(ctx, orders.Draft{
		UserEmail:     req.UserEmail,
		Items:         lines,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    total,
		Status:        orders.StatusConfirmed,
	})
	if err != nil {
		return Receipt{}, err
	}

	c.publishConfirmed(ctx, req.UserEmail, orderID, total)

	return Receipt{
		OrderID:       orderID,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    total,
		Status:        orders.StatusConfirmed,
		AuthID:        ch.AuthID,
	}, nil
}

// publishConfirmed enqueues the confirmation for the worker; the request
// never waits on the mail send.
func (c *Concurrent) publishConfirmed(ctx context.Context, email, orderID string, totalCents int) {
	if c.Events == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderConfirmed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      c.Service,
		TraceID:       logger.RequestIDFrom(ctx),
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(orders.OrderConfirmedPayload{
			OrderID:    orderID,
			UserEmail:  email,
			TotalCents: totalCents,
			Status:     string(orders.StatusConfirmed),
		}),
	}
	c.Events.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderConfirmed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
