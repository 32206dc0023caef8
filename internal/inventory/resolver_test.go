package inventory

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerItem_SumsMovementRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT delta FROM inventory_movements WHERE product_id=\$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"delta"}).
			AddRow(10).AddRow(-3).AddRow(1))

	r := &PerItem{DB: mock}
	n, err := r.OnHand(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestPerItem_NoMovementsResolvesToZero(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT delta FROM inventory_movements`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"delta"}))

	r := &PerItem{DB: mock}
	n, err := r.OnHand(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPerItem_OnHandManyIssuesOneQueryPerProduct(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT delta FROM inventory_movements`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"delta"}).AddRow(4))
	mock.ExpectQuery(`SELECT delta FROM inventory_movements`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"delta"}).AddRow(7).AddRow(-2))

	r := &PerItem{DB: mock}
	m, err := r.OnHandMany(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 4, 2: 5}, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatched_GroupedAggregation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT product_id, COALESCE\(SUM\(delta\), 0\).*WHERE product_id IN \(\$1,\$2,\$3\).*GROUP BY product_id`).
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "sum"}).
			AddRow(int64(1), 4).
			AddRow(int64(2), 5))

	r := &Batched{DB: mock}
	m, err := r.OnHandMany(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 4, m[1])
	assert.Equal(t, 5, m[2])
	// no movements: absent from the map, defaults to 0 at call sites
	_, present := m[3]
	assert.False(t, present)
}

func TestBatched_EmptyInputSkipsQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := &Batched{DB: mock}
	m, err := r.OnHandMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Both strategies must agree on totals for the same movement history.
func TestStrategies_AgreeOnTotals(t *testing.T) {
	history := map[int64][]int{
		1: {10, -3, 1},
		2: {2},
		3: {},
	}
	ids := []int64{1, 2, 3}

	mockSeq, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockSeq.Close()
	for _, id := range ids {
		rows := pgxmock.NewRows([]string{"delta"})
		for _, d := range history[id] {
			rows.AddRow(d)
		}
		mockSeq.ExpectQuery(`SELECT delta FROM inventory_movements`).
			WithArgs(id).
			WillReturnRows(rows)
	}

	mockBatch, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockBatch.Close()
	agg := pgxmock.NewRows([]string{"product_id", "sum"})
	for _, id := range ids {
		if len(history[id]) == 0 {
			continue
		}
		total := 0
		for _, d := range history[id] {
			total += d
		}
		agg.AddRow(id, total)
	}
	mockBatch.ExpectQuery(`GROUP BY product_id`).
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnRows(agg)

	perItem := &PerItem{DB: mockSeq}
	batched := &Batched{DB: mockBatch}

	seq, err := perItem.OnHandMany(context.Background(), ids)
	require.NoError(t, err)
	bat, err := batched.OnHandMany(context.Background(), ids)
	require.NoError(t, err)

	for _, id := range ids {
		assert.Equal(t, seq[id], bat[id], "product %d", id)
	}
}

// Unchanged history resolves to the same value across calls.
func TestPerItem_ResolutionIsIdempotent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT delta FROM inventory_movements`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"delta"}).AddRow(3).AddRow(4))
	}

	r := &PerItem{DB: mock}
	first, err := r.OnHand(context.Background(), 1)
	require.NoError(t, err)
	second, err := r.OnHand(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
