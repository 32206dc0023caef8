package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"storelab-be/internal/checkout"
	"storelab-be/internal/inventory"
	"storelab-be/internal/logger"
)

// V1Handler serves the naive API. Catalog enrichment issues one
// inventory query per product; checkout awaits every step in turn.
type V1Handler struct {
	Catalog   ProductLister
	Inventory inventory.Resolver
	Checkout  checkout.Processor
}

func (h *V1Handler) Register(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Post("/checkout", h.checkout)
	})
}

func (h *V1Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	limit, offset, err := pagination(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ps, err := h.Catalog.List(ctx, r.URL.Query().Get("category"), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// the N+1 this version exists to demonstrate
	views := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		inv, err := h.Inventory.OnHand(ctx, p.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		views = append(views, productView(p, &inv))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *V1Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateCheckout(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	rec, err := h.Checkout.Checkout(ctx, req, r.Header.Get(scenarioHeader))
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckoutResp{
		OrderID:    rec.OrderID,
		TotalCents: rec.TotalCents,
		Status:     string(rec.Status),
		TraceID:    logger.RequestIDFrom(r.Context()),
	})
}
