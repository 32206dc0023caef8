package orders

import "fmt"

type Status string

const (
	StatusCreated   Status = "created"
	StatusConfirmed Status = "confirmed"
)

type Item struct {
	ProductID      int64
	Quantity       int
	UnitPriceCents int
}

// Draft is a fully priced cart ready to be committed as an order.
type Draft struct {
	UserEmail     string
	Items         []Item
	SubtotalCents int
	DiscountCents int
	ShippingCents int
	TaxCents      int
	TotalCents    int
	Status        Status
}

// OutOfStockError reports a line whose requested quantity exceeds the
// on-hand total derived from the ledger.
type OutOfStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: product %d requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
