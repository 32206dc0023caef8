package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"storelab-be/internal/redisx"
)

type ExecDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Ledger appends stock movements. Rows are append-only; corrections are
// new movements, never updates.
type Ledger struct {
	DB    ExecDB
	Redis *redis.Client // optional; drops the cached total for the product
}

func (l *Ledger) Append(ctx context.Context, productID int64, delta int) error {
	_, err := l.DB.Exec(ctx,
		`INSERT INTO inventory_movements(product_id, delta) VALUES ($1, $2)`,
		productID, delta)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	if l.Redis != nil {
		redisx.DelBestEffort(ctx, l.Redis, fmt.Sprintf(redisx.KeyInventoryOnHand, productID))
	}
	return nil
}
