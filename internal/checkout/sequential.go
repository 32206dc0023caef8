package checkout

import (
	"context"

	"go.uber.org/zap"

	"storelab-be/internal/inventory"
	"storelab-be/internal/logger"
	"storelab-be/internal/orders"
	"storelab-be/internal/pricing"
)

// Sequential is the naive variant behind /api/v1. Every product lookup,
// inventory read, and downstream call is awaited one at a time, so
// request latency is the sum of the parts. The mail is sent inline too.
type Sequential struct {
	Products  ProductSource
	Inventory inventory.Resolver // per-item strategy
	Coupons   pricing.Resolver   // scan strategy
	Shipping  ShippingQuoter
	Tax       TaxCalculator
	Payments  PaymentGateway
	Orders    OrderStore
	Mail      Mailer
}

func (s *Sequential) Checkout(ctx context.Context, req Request, scenario string) (Receipt, error) {
	subtotal := 0
	lines := make([]orders.Item, 0, len(req.Items))
	for _, it := range req.Items {
		p, err := s.Products.ByID(ctx, it.ProductID)
		if err != nil {
			return Receipt{}, err
		}
		onHand, err := s.Inventory.OnHand(ctx, p.ID)
		if err != nil {
			return Receipt{}, err
		}
		if onHand < it.Quantity {
			return Receipt{}, &orders.OutOfStockError{ProductID: p.ID, Requested: it.Quantity, Available: onHand}
		}
		subtotal += p.PriceCents * it.Quantity
		lines = append(lines, orders.Item{ProductID: p.ID, Quantity: it.Quantity, UnitPriceCents: p.PriceCents})
	}

	discount, err := s.Coupons.Discount(ctx, subtotal, req.CouponCode)
	if err != nil {
		return Receipt{}, err
	}
	shipping, err := s.Shipping.Quote(ctx, req.Address, subtotal, scenario)
	if err != nil {
		return Receipt{}, err
	}
	tax, err := s.Tax.Compute(ctx, req.Address, subtotal)
	if err != nil {
		return Receipt{}, err
	}
	total := subtotal - discount + shipping + tax

	ch, err := s.Payments.Charge(ctx, paymentToken(req), total, scenario)
	if err != nil {
		return Receipt{}, err
	}
	if !ch.Approved {
		return Receipt{}, ErrPaymentDeclined
	}

	orderID, err := s.Orders.Commit(ctx, orders.Draft{
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

	// inline confirmation mail: the request pays for the send
	if err := s.Mail.SendConfirmation(ctx, req.UserEmail, orderID, total); err != nil {
		logger.FromCtx(ctx).Warn("confirmation mail failed", zap.Error(err))
	}

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
