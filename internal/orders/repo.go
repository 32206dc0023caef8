package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"storelab-be/internal/redisx"
)

type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repo struct {
	DB    DB
	Redis *redis.Client // optional; drops cached on-hand totals after commit
}

// Commit persists the order, its items, and one negative movement per
// line in a single transaction. Each product row is locked before the
// on-hand total is re-checked, so two concurrent checkouts for the same
// product serialize here and cannot both drain the same stock.
func (r *Repo) Commit(ctx context.Context, d Draft) (orderID string, err error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users(email) VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id`, d.UserEmail).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("upsert user: %w", err)
	}

	orderID = uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, subtotal_cents, discount_cents, shipping_cents, tax_cents, total_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		orderID, userID, d.SubtotalCents, d.DiscountCents, d.ShippingCents, d.TaxCents, d.TotalCents, string(d.Status))
	if err != nil {
		return "", err
	}

	for _, it := range d.Items {
		var pid int64
		if err := tx.QueryRow(ctx,
			`SELECT id FROM products WHERE id=$1 FOR UPDATE`, it.ProductID).Scan(&pid); err != nil {
			return "", err
		}
		var onHand int
		if err := tx.QueryRow(ctx,
			`SELECT COALESCE(SUM(delta), 0) FROM inventory_movements WHERE product_id=$1`,
			it.ProductID).Scan(&onHand); err != nil {
			return "", err
		}
		if onHand < it.Quantity {
			return "", &OutOfStockError{ProductID: it.ProductID, Requested: it.Quantity, Available: onHand}
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)`,
			orderID, it.ProductID, it.Quantity, it.UnitPriceCents); err != nil {
			return "", err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO inventory_movements(product_id, delta)
			VALUES ($1, $2)`,
			it.ProductID, -it.Quantity); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	if r.Redis != nil {
		keys := make([]string, 0, len(d.Items))
		for _, it := range d.Items {
			keys = append(keys, fmt.Sprintf(redisx.KeyInventoryOnHand, it.ProductID))
		}
		redisx.DelBestEffort(ctx, r.Redis, keys...)
	}
	return orderID, nil
}
