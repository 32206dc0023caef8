package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"storelab-be/internal/catalog"
	"storelab-be/internal/checkout"
	"storelab-be/internal/logger"
	"storelab-be/internal/orders"
)

const scenarioHeader = "X-Scenario"

type ProductLister interface {
	List(ctx context.Context, categoryPrefix string, limit, offset int) ([]catalog.Product, error)
}

type ProductView struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	CategoryID int64   `json:"category_id"`
	PriceCents int     `json:"price_cents"`
	ImageURL   *string `json:"image_url"`
	Inventory  *int    `json:"inventory,omitempty"`
}

type CheckoutResp struct {
	OrderID    string `json:"order_id"`
	TotalCents int    `json:"total_cents"`
	Status     string `json:"status"`
	TraceID    string `json:"trace_id,omitempty"`
}

func productView(p catalog.Product, inv *int) ProductView {
	return ProductView{
		ID:         p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		CategoryID: p.CategoryID,
		PriceCents: p.PriceCents,
		ImageURL:   p.ImageURL,
		Inventory:  inv,
	}
}

// pagination parses limit/offset with the catalog defaults. Malformed or
// negative values are a binding error, not a domain one.
func pagination(r *http.Request) (limit, offset int, err error) {
	limit, offset = 20, 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 0 {
			return 0, 0, errors.New("invalid limit")
		}
		if limit > 100 {
			limit = 100
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("invalid offset")
		}
	}
	return limit, offset, nil
}

func validateCheckout(req checkout.Request) error {
	if req.UserEmail == "" {
		return errors.New("user_email is required")
	}
	for _, it := range req.Items {
		if it.ProductID <= 0 {
			return errors.New("product_id must be positive")
		}
		if it.Quantity <= 0 {
			return errors.New("quantity must be positive")
		}
	}
	return nil
}

func writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var oos *orders.OutOfStockError
	switch {
	case errors.As(err, &oos):
		writeJSON(w, http.StatusConflict, map[string]string{"error": oos.Error()})
	case errors.Is(err, catalog.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, checkout.ErrPaymentDeclined):
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"error": err.Error()})
	default:
		logger.FromCtx(r.Context()).Error("checkout failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
