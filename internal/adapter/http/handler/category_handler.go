package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fiscalhq/ledger/internal/adapter/http/dto"
	"github.com/fiscalhq/ledger/internal/domain"
	"github.com/fiscalhq/ledger/internal/infrastructure/metrics"
	"github.com/fiscalhq/ledger/internal/usecase"
)

// CategorizationService is the use case surface the handler needs.
type CategorizationService interface {
	CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.AccountingCategory, error)
	ListCategories(ctx context.Context, hostCollectiveID string) ([]*domain.AccountingCategory, error)
	CreateRule(ctx context.Context, input usecase.CreateRuleInput) (*domain.CategoryRule, error)
	ListRules(ctx context.Context, hostCollectiveID string) ([]*domain.CategoryRule, error)
	DeleteRule(ctx context.Context, hostCollectiveID, ruleID string) error
}

// CategoryHandler handles accounting category and rule management for a
// host.
type CategoryHandler struct {
	categorizationUC CategorizationService
	metrics          *metrics.Metrics
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categorizationUC CategorizationService, m *metrics.Metrics) *CategoryHandler {
	return &CategoryHandler{categorizationUC: categorizationUC, metrics: m}
}

// CreateCategory creates an accounting category for a host.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	hostID := chi.URLParam(r, "hostID")
	if hostID == "" {
		writeError(w, http.StatusBadRequest, "missing host ID", "")
		return
	}

	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := h.categorizationUC.CreateCategory(r.Context(), req.ToUseCaseInput(hostID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create category", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryFromDomain(category))
}

// ListCategories lists a host's accounting categories.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	hostID := chi.URLParam(r, "hostID")
	if hostID == "" {
		writeError(w, http.StatusBadRequest, "missing host ID", "")
		return
	}

	categories, err := h.categorizationUC.ListCategories(r.Context(), hostID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// CreateRule creates a category rule for a host.
func (h *CategoryHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	hostID := chi.URLParam(r, "hostID")
	if hostID == "" {
		writeError(w, http.StatusBadRequest, "missing host ID", "")
		return
	}

	var req dto.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rule, err := h.categorizationUC.CreateRule(r.Context(), req.ToUseCaseInput(hostID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create rule", err.Error())

		return
	}

	h.metrics.RulesCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.RuleFromDomain(rule))
}

// ListRules lists a host's category rules in priority order.
func (h *CategoryHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	hostID := chi.URLParam(r, "hostID")
	if hostID == "" {
		writeError(w, http.StatusBadRequest, "missing host ID", "")
		return
	}

	rules, err := h.categorizationUC.ListRules(r.Context(), hostID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rules", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RulesFromDomain(rules))
}

// DeleteRule removes a category rule from a host.
func (h *CategoryHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	hostID := chi.URLParam(r, "hostID")
	ruleID := chi.URLParam(r, "ruleID")
	if hostID == "" || ruleID == "" {
		writeError(w, http.StatusBadRequest, "missing host or rule ID", "")
		return
	}

	if err := h.categorizationUC.DeleteRule(r.Context(), hostID, ruleID); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete rule", err.Error())

		return
	}

	h.metrics.RulesDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}
