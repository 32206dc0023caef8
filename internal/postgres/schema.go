package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates all tables if absent. There is no versioned
// migration story for this demo; the schema is recreated idempotently
// at process start.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id    BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id   BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_slug ON categories(slug)`,
		`CREATE TABLE IF NOT EXISTS products (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			slug        TEXT NOT NULL,
			category_id BIGINT NOT NULL REFERENCES categories(id),
			price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
			image_url   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
		`CREATE TABLE IF NOT EXISTS inventory_movements (
			id         BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id),
			delta      INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movements_product ON inventory_movements(product_id)`,
		`CREATE TABLE IF NOT EXISTS coupons (
			id                     BIGSERIAL PRIMARY KEY,
			code                   TEXT NOT NULL,
			percent_off            INTEGER NOT NULL CHECK (percent_off BETWEEN 0 AND 100),
			starts_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
			ends_at                TIMESTAMPTZ NOT NULL DEFAULT now(),
			min_subtotal_cents     INTEGER NOT NULL DEFAULT 0,
			applies_to_category_id BIGINT REFERENCES categories(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_coupons_code ON coupons(code)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id             TEXT PRIMARY KEY,
			user_id        BIGINT NOT NULL REFERENCES users(id),
			subtotal_cents INTEGER NOT NULL,
			discount_cents INTEGER NOT NULL DEFAULT 0,
			shipping_cents INTEGER NOT NULL DEFAULT 0,
			tax_cents      INTEGER NOT NULL DEFAULT 0,
			total_cents    INTEGER NOT NULL,
			status         TEXT NOT NULL DEFAULT 'created',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id               BIGSERIAL PRIMARY KEY,
			order_id         TEXT NOT NULL REFERENCES orders(id),
			product_id       BIGINT NOT NULL REFERENCES products(id),
			quantity         INTEGER NOT NULL CHECK (quantity > 0),
			unit_price_cents INTEGER NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
