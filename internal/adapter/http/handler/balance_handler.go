package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fiscalhq/ledger/internal/adapter/http/dto"
	"github.com/fiscalhq/ledger/internal/domain"
)

// BalanceService is the use case surface the handler needs.
type BalanceService interface {
	GetBalancesByHostAndCurrency(ctx context.Context, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error)
	GetBalance(ctx context.Context, collectiveID string, endDate *time.Time) (int64, error)
}

// BalanceHandler handles balance queries.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// ListByHost returns per-host, per-currency balances for a collective.
// An optional end_date query parameter bounds the computation in time.
func (h *BalanceHandler) ListByHost(w http.ResponseWriter, r *http.Request) {
	collectiveID := chi.URLParam(r, "collectiveID")
	if collectiveID == "" {
		writeError(w, http.StatusBadRequest, "missing collective ID", "")
		return
	}

	endDate, err := parseDateQuery(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err.Error())
		return
	}

	balances, err := h.balanceUC.GetBalancesByHostAndCurrency(r.Context(), collectiveID, endDate)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balances", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// Get returns the canonical net balance for a collective.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	collectiveID := chi.URLParam(r, "collectiveID")
	if collectiveID == "" {
		writeError(w, http.StatusBadRequest, "missing collective ID", "")
		return
	}

	endDate, err := parseDateQuery(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err.Error())
		return
	}

	balance, err := h.balanceUC.GetBalance(r.Context(), collectiveID, endDate)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}
