package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type Coupon struct {
	ID                  int64
	Code                string
	PercentOff          int
	StartsAt            time.Time
	EndsAt              time.Time
	MinSubtotalCents    int
	AppliesToCategoryID *int64
}

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Resolver turns a subtotal and an optional coupon code into a discount
// in cents. No code or no valid match means 0, not an error.
type Resolver interface {
	Discount(ctx context.Context, subtotalCents int, code string) (int, error)
}

// Matching semantics shared by both strategies: case-sensitive code,
// window inclusive on both ends, subtotal >= minimum. Discount is
// floor(subtotal * percent / 100). If duplicate codes exist the first
// row wins; seeding keeps codes unique.

// Scan loads the whole coupon table and filters in Go. This is the v1
// half of the comparison.
type Scan struct {
	DB  DB
	Now func() time.Time
	// Latency mimics pulling a large table over the wire. Zero disables it.
	Latency time.Duration
}

func (s *Scan) Discount(ctx context.Context, subtotalCents int, code string) (int, error) {
	if code == "" {
		return 0, nil
	}
	if s.Latency > 0 {
		if err := wait(ctx, s.Latency); err != nil {
			return 0, err
		}
	}
	rows, err := s.DB.Query(ctx,
		`SELECT code, percent_off, starts_at, ends_at, min_subtotal_cents FROM coupons`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	now := s.clock()
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(&c.Code, &c.PercentOff, &c.StartsAt, &c.EndsAt, &c.MinSubtotalCents); err != nil {
			return 0, err
		}
		if c.Code == code && !now.Before(c.StartsAt) && !now.After(c.EndsAt) && subtotalCents >= c.MinSubtotalCents {
			return subtotalCents * c.PercentOff / 100, nil
		}
	}
	return 0, rows.Err()
}

func (s *Scan) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Predicate pushes all four conditions into the query and takes the
// first match. This is the v2 half.
type Predicate struct {
	DB  DB
	Now func() time.Time
}

func (p *Predicate) Discount(ctx context.Context, subtotalCents int, code string) (int, error) {
	if code == "" {
		return 0, nil
	}
	now := p.clock()
	var pct int
	err := p.DB.QueryRow(ctx,
		`SELECT percent_off FROM coupons
		 WHERE code=$1 AND starts_at<=$2 AND ends_at>=$2 AND min_subtotal_cents<=$3
		 LIMIT 1`, code, now, subtotalCents).Scan(&pct)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return subtotalCents * pct / 100, nil
}

func (p *Predicate) clock() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
