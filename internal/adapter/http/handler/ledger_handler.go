package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fiscalhq/ledger/internal/adapter/http/dto"
	"github.com/fiscalhq/ledger/internal/domain"
	"github.com/fiscalhq/ledger/internal/usecase"
)

// ConsistencyChecker verifies ledger-wide invariants.
type ConsistencyChecker interface {
	CheckConsistency(ctx context.Context) (bool, error)
}

// TransactionLister pages a collective's ledger rows.
type TransactionLister interface {
	ListByCollective(ctx context.Context, collectiveID string, limit, offset int) ([]*domain.Transaction, error)
}

// LedgerHandler handles ledger-wide queries.
type LedgerHandler struct {
	ledgerUC ConsistencyChecker
	txRepo   TransactionLister
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC ConsistencyChecker, txRepo TransactionLister) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, txRepo: txRepo}
}

// CheckConsistency verifies the double-entry invariants over the whole
// ledger.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	consistent, err := h.ledgerUC.CheckConsistency(r.Context())
	switch {
	case errors.Is(err, usecase.ErrInconsistentLedger):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{
			Error:   "ledger is inconsistent",
			Message: err.Error(),
		})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	case !consistent:
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "ledger is inconsistent"})
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{Consistent: true})
}

// ListTransactions lists ledger rows for a collective, newest first.
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	collectiveID := chi.URLParam(r, "collectiveID")
	if collectiveID == "" {
		writeError(w, http.StatusBadRequest, "missing collective ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	transactions, err := h.txRepo.ListByCollective(r.Context(), collectiveID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	result := make([]*dto.TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = dto.TransactionFromDomain(t)
	}

	writeJSON(w, http.StatusOK, result)
}
