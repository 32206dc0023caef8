package catalog

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "slug", "category_id", "price_cents", "image_url"})
}

func TestRepo_List(t *testing.T) {
	ctx := context.Background()

	t.Run("NoFilter", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		mock.ExpectQuery(`SELECT .* FROM products ORDER BY id LIMIT \$1 OFFSET \$2`).
			WithArgs(20, 0).
			WillReturnRows(productRows().
				AddRow(int64(1), "Earbuds", "gadgets-earbuds", int64(1), 2999, nil).
				AddRow(int64(2), "Vacuum", "home-vacuum", int64(2), 9999, nil))

		ps, err := repo.List(ctx, "", 20, 0)
		require.NoError(t, err)
		require.Len(t, ps, 2)
		assert.Equal(t, "gadgets-earbuds", ps[0].Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CategoryPrefixBecomesSlugPattern", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		mock.ExpectQuery(`SELECT .* FROM products WHERE slug LIKE \$1 ORDER BY id LIMIT \$2 OFFSET \$3`).
			WithArgs("gadgets-%", 10, 5).
			WillReturnRows(productRows().
				AddRow(int64(1), "Earbuds", "gadgets-earbuds", int64(1), 2999, nil))

		ps, err := repo.List(ctx, "gadgets", 10, 5)
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, int64(1), ps[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnmatchedPrefixYieldsEmptyList", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		mock.ExpectQuery(`WHERE slug LIKE \$1`).
			WithArgs("nosuch-%", 20, 0).
			WillReturnRows(productRows())

		ps, err := repo.List(ctx, "nosuch", 20, 0)
		require.NoError(t, err)
		assert.Empty(t, ps)
	})
}

func TestRepo_ByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		mock.ExpectQuery(`SELECT .* FROM products WHERE id=\$1`).
			WithArgs(int64(7)).
			WillReturnRows(productRows().
				AddRow(int64(7), "Tent", "outdoors-tent", int64(3), 4999, nil))

		p, err := repo.ByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "Tent", p.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		mock.ExpectQuery(`SELECT .* FROM products WHERE id=\$1`).
			WithArgs(int64(99)).
			WillReturnRows(productRows())

		_, err = repo.ByID(ctx, 99)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepo_ByIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingIDsAbsentFromResult", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		mock.ExpectQuery(`SELECT .* FROM products WHERE id IN \(\$1,\$2\)`).
			WithArgs(int64(1), int64(2)).
			WillReturnRows(productRows().
				AddRow(int64(1), "Earbuds", "gadgets-earbuds", int64(1), 2999, nil))

		m, err := repo.ByIDs(ctx, []int64{1, 2})
		require.NoError(t, err)
		assert.Len(t, m, 1)
		_, present := m[2]
		assert.False(t, present)
	})

	t.Run("EmptyInputSkipsQuery", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		m, err := repo.ByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, m)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
