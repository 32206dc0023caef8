package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// DB is the slice of pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct{ DB DB }

const productCols = `id, name, slug, category_id, price_cents, image_url`

// List returns products in primary-key order. A non-empty categoryPrefix
// restricts the result to slugs starting with "{prefix}-"; an unmatched
// prefix yields an empty list, not an error.
func (r *Repo) List(ctx context.Context, categoryPrefix string, limit, offset int) ([]Product, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if categoryPrefix != "" {
		rows, err = r.DB.Query(ctx,
			`SELECT `+productCols+` FROM products WHERE slug LIKE $1 ORDER BY id LIMIT $2 OFFSET $3`,
			categoryPrefix+"-%", limit, offset)
	} else {
		rows, err = r.DB.Query(ctx,
			`SELECT `+productCols+` FROM products ORDER BY id LIMIT $1 OFFSET $2`,
			limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.CategoryID, &p.PriceCents, &p.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Slug, &p.CategoryID, &p.PriceCents, &p.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ByIDs fetches all requested products in one query. Missing ids are
// simply absent from the result map.
func (r *Repo) ByIDs(ctx context.Context, ids []int64) (map[int64]Product, error) {
	out := make(map[int64]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(ids))
	params := ""
	for i, id := range ids {
		if i > 0 {
			params += ","
		}
		params += fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE id IN (`+params+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.CategoryID, &p.PriceCents, &p.ImageURL); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}
