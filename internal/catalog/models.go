package catalog

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product is a catalog row. Prices are integer minor units; inventory is
// never stored here, it is derived from the movement ledger.
type Product struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	CategoryID int64   `json:"category_id"`
	PriceCents int     `json:"price_cents"`
	ImageURL   *string `json:"image_url"`
}
