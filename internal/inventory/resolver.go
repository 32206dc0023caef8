package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Resolver reports on-hand quantity for products, derived as the signed
// sum of all movement deltas in the ledger. Products with no movements
// resolve to 0.
type Resolver interface {
	OnHand(ctx context.Context, productID int64) (int, error)
	OnHandMany(ctx context.Context, productIDs []int64) (map[int64]int, error)
}

// PerItem issues one movement query per product and sums the rows in Go.
// Deliberately inefficient; this is the v1 half of the comparison.
type PerItem struct {
	DB DB
	// Latency is added before every query to mimic a remote database
	// round trip. Zero disables it.
	Latency time.Duration
}

func (p *PerItem) OnHand(ctx context.Context, productID int64) (int, error) {
	if p.Latency > 0 {
		if err := simulate(ctx, p.Latency); err != nil {
			return 0, err
		}
	}
	rows, err := p.DB.Query(ctx,
		`SELECT delta FROM inventory_movements WHERE product_id=$1`, productID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var delta int
		if err := rows.Scan(&delta); err != nil {
			return 0, err
		}
		total += delta
	}
	return total, rows.Err()
}

func (p *PerItem) OnHandMany(ctx context.Context, productIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(productIDs))
	for _, id := range productIDs {
		n, err := p.OnHand(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, nil
}

// Batched resolves every product with a single grouped aggregation.
// Ids without movements are absent from the result; callers default
// them to 0.
type Batched struct{ DB DB }

func (b *Batched) OnHand(ctx context.Context, productID int64) (int, error) {
	m, err := b.OnHandMany(ctx, []int64{productID})
	if err != nil {
		return 0, err
	}
	return m[productID], nil
}

func (b *Batched) OnHandMany(ctx context.Context, productIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(productIDs))
	params := ""
	for i, id := range productIDs {
		if i > 0 {
			params += ","
		}
		params += fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	rows, err := b.DB.Query(ctx,
		`SELECT product_id, COALESCE(SUM(delta), 0)
		 FROM inventory_movements
		 WHERE product_id IN (`+params+`)
		 GROUP BY product_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int64
			total int
		)
		if err := rows.Scan(&id, &total); err != nil {
			return nil, err
		}
		out[id] = total
	}
	return out, rows.Err()
}

func simulate(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
