package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fiscalhq/ledger/internal/domain"
	"github.com/fiscalhq/ledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TransactionResponse represents a ledger row in API responses.
type TransactionResponse struct {
	ID                   string          `json:"id"`
	Type                 string          `json:"type"`
	Kind                 string          `json:"kind"`
	Description          string          `json:"description"`
	Amount               int64           `json:"amount"`
	Currency             string          `json:"currency"`
	AmountInHostCurrency int64           `json:"amount_in_host_currency"`
	HostCurrency         string          `json:"host_currency"`
	HostCurrencyFxRate   decimal.Decimal `json:"host_currency_fx_rate"`
	CollectiveID         string          `json:"collective_id"`
	HostCollectiveID     *string         `json:"host_collective_id,omitempty"`
	TransactionGroup     string          `json:"transaction_group"`
	IsInternal           bool            `json:"is_internal"`
	CreatedAt            time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                   t.ID,
		Type:                 string(t.Type),
		Kind:                 string(t.Kind),
		Description:          t.Description,
		Amount:               t.Amount,
		Currency:             t.Currency,
		AmountInHostCurrency: t.AmountInHostCurrency,
		HostCurrency:         t.HostCurrency,
		HostCurrencyFxRate:   t.HostCurrencyFxRate,
		CollectiveID:         t.CollectiveID,
		HostCollectiveID:     t.HostCollectiveID,
		TransactionGroup:     t.TransactionGroup.String(),
		IsInternal:           t.IsInternal,
		CreatedAt:            t.CreatedAt,
	}
}

// CarryforwardResponse represents the outcome of a carryforward run.
type CarryforwardResponse struct {
	Created      bool                 `json:"created"`
	Balance      int64                `json:"balance,omitempty"`
	HostCurrency string               `json:"host_currency,omitempty"`
	Closing      *TransactionResponse `json:"closing,omitempty"`
	Opening      *TransactionResponse `json:"opening,omitempty"`
}

// CarryforwardFromResult converts a use case result to a response. A nil
// result means a zero balance: nothing was written.
func CarryforwardFromResult(res *usecase.CarryforwardResult) *CarryforwardResponse {
	if res == nil {
		return &CarryforwardResponse{Created: false}
	}

	return &CarryforwardResponse{
		Created:      true,
		Balance:      res.Balance,
		HostCurrency: res.HostCurrency,
		Closing:      TransactionFromDomain(res.Closing),
		Opening:      TransactionFromDomain(res.Opening),
	}
}

// BatchCarryforwardResponse summarizes a carryforward run over all hosted
// collectives.
type BatchCarryforwardResponse struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// BalanceResponse represents one per-host balance in API responses.
type BalanceResponse struct {
	HostCollectiveID string `json:"host_collective_id"`
	HostCurrency     string `json:"host_currency"`
	Balance          int64  `json:"balance"`
}

// BalancesFromDomain converts balance snapshots to responses.
func BalancesFromDomain(snapshots []domain.BalanceSnapshot) []BalanceResponse {
	result := make([]BalanceResponse, len(snapshots))
	for i, s := range snapshots {
		result[i] = BalanceResponse{
			HostCollectiveID: s.HostCollectiveID,
			HostCurrency:     s.HostCurrency,
			Balance:          s.Balance,
		}
	}
	return result
}

// PredicateResponse is one normalized rule condition.
type PredicateResponse struct {
	Subject  string   `json:"subject"`
	Operator string   `json:"operator"`
	Value    string   `json:"value,omitempty"`
	Values   []string `json:"values,omitempty"`
}

// RuleResponse represents a category rule in API responses.
type RuleResponse struct {
	ID                   string              `json:"id"`
	AccountingCategoryID string              `json:"accounting_category_id"`
	CategoryCode         string              `json:"category_code,omitempty"`
	Position             int                 `json:"position"`
	Predicates           []PredicateResponse `json:"predicates"`
	CreatedAt            time.Time           `json:"created_at"`
}

// RuleFromDomain converts a domain rule to a response.
func RuleFromDomain(r *domain.CategoryRule) *RuleResponse {
	predicates := make([]PredicateResponse, len(r.Predicates))
	for i, p := range r.Predicates {
		predicates[i] = PredicateResponse{
			Subject:  string(p.Subject),
			Operator: string(p.Operator),
			Value:    p.Value,
			Values:   p.Values,
		}
	}

	resp := &RuleResponse{
		ID:                   r.ID,
		AccountingCategoryID: r.AccountingCategoryID,
		Position:             r.Position,
		Predicates:           predicates,
		CreatedAt:            r.CreatedAt,
	}
	if r.Category != nil {
		resp.CategoryCode = r.Category.Code
	}

	return resp
}

// RulesFromDomain converts domain rules to responses.
func RulesFromDomain(rules []*domain.CategoryRule) []*RuleResponse {
	result := make([]*RuleResponse, len(rules))
	for i, r := range rules {
		result[i] = RuleFromDomain(r)
	}
	return result
}

// CategoryResponse represents an accounting category in API responses.
type CategoryResponse struct {
	ID               string    `json:"id"`
	HostCollectiveID string    `json:"host_collective_id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Kind             string    `json:"kind"`
	AppliesTo        string    `json:"applies_to"`
	CreatedAt        time.Time `json:"created_at"`
}

// CategoryFromDomain converts a domain category to a response.
func CategoryFromDomain(c *domain.AccountingCategory) *CategoryResponse {
	return &CategoryResponse{
		ID:               c.ID,
		HostCollectiveID: c.HostCollectiveID,
		Code:             c.Code,
		Name:             c.Name,
		Kind:             string(c.Kind),
		AppliesTo:        string(c.AppliesTo),
		CreatedAt:        c.CreatedAt,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.AccountingCategory) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// CategorizeOrderResponse reports whether rule application categorized
// the order.
type CategorizeOrderResponse struct {
	Categorized bool `json:"categorized"`
}

// ConsistencyResponse reports the ledger-wide consistency check outcome.
type ConsistencyResponse struct {
	Consistent bool `json:"consistent"`
}
