package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fiscalhq/ledger/internal/adapter/http/dto"
	"github.com/fiscalhq/ledger/internal/infrastructure/metrics"
)

// OrderCategorizer applies category rules to an order.
type OrderCategorizer interface {
	ApplyRules(ctx context.Context, orderID string) bool
}

// OrderHandler handles order categorization requests.
type OrderHandler struct {
	categorizationUC OrderCategorizer
	metrics          *metrics.Metrics
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(categorizationUC OrderCategorizer, m *metrics.Metrics) *OrderHandler {
	return &OrderHandler{categorizationUC: categorizationUC, metrics: m}
}

// Categorize applies the host's category rules to an order. Rule
// application is best-effort: the response reports whether a category
// was assigned, never an error.
func (h *OrderHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	categorized := h.categorizationUC.ApplyRules(r.Context(), orderID)
	if categorized {
		h.metrics.CategorizationsApplied.Inc()
	} else {
		h.metrics.CategorizationsSkipped.Inc()
	}

	writeJSON(w, http.StatusOK, dto.CategorizeOrderResponse{Categorized: categorized})
}
