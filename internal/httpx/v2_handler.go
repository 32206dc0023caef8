package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"storelab-be/internal/checkout"
	"storelab-be/internal/inventory"
	"storelab-be/internal/logger"
)

// V2Handler serves the optimized API. Catalog enrichment is one batched
// aggregation; checkout overlaps its downstream calls.
type V2Handler struct {
	Catalog   ProductLister
	Inventory inventory.Resolver
	Checkout  checkout.Processor
}

func (h *V2Handler) Register(r *chi.Mux) {
	r.Route("/api/v2", func(r chi.Router) {
		r.Get("/catalog", h.listCatalog)
		r.Post("/checkout", h.checkout)
	})
}

func (h *V2Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
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

	withInventory := strings.Contains(r.URL.Query().Get("include"), "inventory")
	var onHand map[int64]int
	if withInventory {
		ids := make([]int64, 0, len(ps))
		for _, p := range ps {
			ids = append(ids, p.ID)
		}
		onHand, err = h.Inventory.OnHandMany(ctx, ids)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	views := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		var inv *int
		if withInventory {
			n := onHand[p.ID] // absent ids default to 0
			inv = &n
		}
		views = append(views, productView(p, inv))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *V2Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateCheckout(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
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
