package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fiscalhq/ledger/internal/adapter/http/dto"
	"github.com/fiscalhq/ledger/internal/infrastructure/metrics"
	"github.com/fiscalhq/ledger/internal/usecase"
)

// CarryforwardService is the use case surface the handler needs.
type CarryforwardService interface {
	CreateBalanceCarryforward(ctx context.Context, collectiveID string, carryforwardDate time.Time) (*usecase.CarryforwardResult, error)
	RunForAll(ctx context.Context, carryforwardDate time.Time) (usecase.BatchResult, error)
}

// CarryforwardHandler handles balance carryforward requests.
type CarryforwardHandler struct {
	carryforwardUC CarryforwardService
	metrics        *metrics.Metrics
}

// NewCarryforwardHandler creates a new CarryforwardHandler.
func NewCarryforwardHandler(carryforwardUC CarryforwardService, m *metrics.Metrics) *CarryforwardHandler {
	return &CarryforwardHandler{carryforwardUC: carryforwardUC, metrics: m}
}

// Create runs a balance carryforward for a collective.
func (h *CarryforwardHandler) Create(w http.ResponseWriter, r *http.Request) {
	collectiveID := chi.URLParam(r, "collectiveID")
	if collectiveID == "" {
		writeError(w, http.StatusBadRequest, "missing collective ID", "")
		return
	}

	var req dto.CreateCarryforwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := req.CarryforwardDate(time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	start := time.Now()
	result, err := h.carryforwardUC.CreateBalanceCarryforward(r.Context(), collectiveID, date)
	if err != nil {
		h.metrics.CarryforwardErrors.WithLabelValues("request").Inc()
		status := mapDomainError(err)
		writeError(w, status, "failed to create carryforward", err.Error())

		return
	}
	h.metrics.CarryforwardDuration.Observe(time.Since(start).Seconds())

	if result == nil {
		h.metrics.CarryforwardsSkipped.WithLabelValues("zero_balance").Inc()
		writeJSON(w, http.StatusOK, dto.CarryforwardFromResult(nil))
		return
	}

	h.metrics.CarryforwardsCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.CarryforwardFromResult(result))
}

// RunAll runs the carryforward for every hosted collective. Per-collective
// failures are counted, not surfaced, so a batch always reports its totals.
func (h *CarryforwardHandler) RunAll(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCarryforwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := req.CarryforwardDate(time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	res, err := h.carryforwardUC.RunForAll(r.Context(), date)
	if err != nil {
		h.metrics.CarryforwardErrors.WithLabelValues("batch").Inc()
		writeError(w, http.StatusInternalServerError, "batch carryforward failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BatchCarryforwardResponse{
		Processed: res.Processed,
		Created:   res.Created,
		Skipped:   res.Skipped,
		Failed:    res.Failed,
	})
}
