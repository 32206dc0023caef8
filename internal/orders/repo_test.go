package orders

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draft() Draft {
	return Draft{
		UserEmail:     "demo@storelab.dev",
		Items:         []Item{{ProductID: 1, Quantity: 2, UnitPriceCents: 2999}},
		SubtotalCents: 5998,
		DiscountCents: 599,
		ShippingCents: 0,
		TaxCents:      479,
		TotalCents:    5878,
		Status:        StatusConfirmed,
	}
}

func TestRepo_Commit(t *testing.T) {
	ctx := context.Background()

	t.Run("PersistsOrderItemsAndMovements", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO users\(email\)`).
			WithArgs("demo@storelab.dev").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectExec(`INSERT INTO orders`).
			WithArgs(pgxmock.AnyArg(), int64(42), 5998, 599, 0, 479, 5878, "confirmed").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery(`SELECT id FROM products WHERE id=\$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(delta\), 0\) FROM inventory_movements`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(5))
		mock.ExpectExec(`INSERT INTO order_items`).
			WithArgs(pgxmock.AnyArg(), int64(1), 2, 2999).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO inventory_movements`).
			WithArgs(int64(1), -2).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		orderID, err := repo.Commit(ctx, draft())
		require.NoError(t, err)
		assert.NotEmpty(t, orderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientStockRollsBack", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO users\(email\)`).
			WithArgs("demo@storelab.dev").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectExec(`INSERT INTO orders`).
			WithArgs(pgxmock.AnyArg(), int64(42), 5998, 599, 0, 479, 5878, "confirmed").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery(`SELECT id FROM products WHERE id=\$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(delta\), 0\) FROM inventory_movements`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(1))
		mock.ExpectRollback()

		_, err = repo.Commit(ctx, draft())
		var oos *OutOfStockError
		require.ErrorAs(t, err, &oos)
		assert.Equal(t, int64(1), oos.ProductID)
		assert.Equal(t, 2, oos.Requested)
		assert.Equal(t, 1, oos.Available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyCartCommitsWithoutItems", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &Repo{DB: mock}

		d := draft()
		d.Items = nil
		d.SubtotalCents, d.DiscountCents, d.TaxCents = 0, 0, 0
		d.ShippingCents, d.TotalCents = 599, 599

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO users\(email\)`).
			WithArgs("demo@storelab.dev").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectExec(`INSERT INTO orders`).
			WithArgs(pgxmock.AnyArg(), int64(42), 0, 0, 599, 0, 599, "confirmed").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		_, err = repo.Commit(ctx, d)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
