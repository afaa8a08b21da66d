package dto

import (
	"time"

	"github.com/fiscalhq/ledger/internal/domain"
	"github.com/fiscalhq/ledger/internal/usecase"
)

// CreateCarryforwardRequest represents a request to run a balance
// carryforward. Date is the closing day in YYYY-MM-DD form; empty means
// yesterday.
type CreateCarryforwardRequest struct {
	Date string `json:"date,omitempty"`
}

// CarryforwardDate resolves the requested closing day.
func (r *CreateCarryforwardRequest) CarryforwardDate(now time.Time) (time.Time, error) {
	if r.Date == "" {
		return now.UTC().AddDate(0, 0, -1), nil
	}
	return time.Parse("2006-01-02", r.Date)
}

// PredicateRequest is one rule condition as authored by a host admin.
type PredicateRequest struct {
	Subject  string   `json:"subject"`
	Operator string   `json:"operator"`
	Value    string   `json:"value,omitempty"`
	Values   []string `json:"values,omitempty"`
}

// CreateRuleRequest represents a request to create a category rule.
type CreateRuleRequest struct {
	AccountingCategoryID string             `json:"accounting_category_id"`
	Predicates           []PredicateRequest `json:"predicates"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRuleRequest) ToUseCaseInput(hostCollectiveID string) usecase.CreateRuleInput {
	predicates := make([]domain.Predicate, len(r.Predicates))
	for i, p := range r.Predicates {
		predicates[i] = domain.Predicate{
			Subject:  domain.RuleSubject(p.Subject),
			Operator: domain.RuleOperator(p.Operator),
			Value:    p.Value,
			Values:   p.Values,
		}
	}

	return usecase.CreateRuleInput{
		HostCollectiveID:     hostCollectiveID,
		AccountingCategoryID: r.AccountingCategoryID,
		Predicates:           predicates,
	}
}

// CreateCategoryRequest represents a request to create an accounting
// category.
type CreateCategoryRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	AppliesTo string `json:"applies_to,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput(hostCollectiveID string) usecase.CreateCategoryInput {
	return usecase.CreateCategoryInput{
		HostCollectiveID: hostCollectiveID,
		Code:             r.Code,
		Name:             r.Name,
		Kind:             domain.CategoryKind(r.Kind),
		AppliesTo:        domain.CategoryAppliesTo(r.AppliesTo),
	}
}
