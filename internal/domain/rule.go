package domain

import (
	"strconv"
	"strings"
	"time"
)

// RuleSubject is the order attribute a predicate tests.
type RuleSubject string

const (
	SubjectDescription      RuleSubject = "description"
	SubjectAmount           RuleSubject = "amount"
	SubjectCurrency         RuleSubject = "currency"
	SubjectFrequency        RuleSubject = "frequency"
	SubjectToAccount        RuleSubject = "toAccount"
	SubjectToAccountType    RuleSubject = "toAccountType"
	SubjectFromAccountType  RuleSubject = "fromAccountType"
	SubjectTierType         RuleSubject = "tierType"
	SubjectPaymentProcessor RuleSubject = "paymentProcessor"
)

// RuleOperator is the comparison a predicate applies.
type RuleOperator string

const (
	OpEq       RuleOperator = "eq"
	OpGte      RuleOperator = "gte"
	OpLte      RuleOperator = "lte"
	OpIn       RuleOperator = "in"
	OpContains RuleOperator = "contains"
)

var subjectOperators = map[RuleSubject][]RuleOperator{
	SubjectDescription:      {OpContains},
	SubjectAmount:           {OpEq, OpGte, OpLte},
	SubjectCurrency:         {OpEq},
	SubjectFrequency:        {OpEq, OpIn},
	SubjectToAccount:        {OpEq, OpIn},
	SubjectToAccountType:    {OpEq, OpIn},
	SubjectFromAccountType:  {OpEq, OpIn},
	SubjectTierType:         {OpEq, OpIn},
	SubjectPaymentProcessor: {OpEq, OpIn},
}

// AllowedOperators returns the operator set for a subject, or nil when the
// subject is unknown.
func AllowedOperators(subject RuleSubject) []RuleOperator {
	return subjectOperators[subject]
}

// OperatorAllowed reports whether op is valid for subject.
func OperatorAllowed(subject RuleSubject, op RuleOperator) bool {
	for _, allowed := range subjectOperators[subject] {
		if allowed == op {
			return true
		}
	}
	return false
}

// Predicate is one normalized condition of a category rule. Value carries
// the operand for single-valued operators, Values for "in". Predicates are
// validated and normalized at authoring time; matching assumes that.
type Predicate struct {
	Subject  RuleSubject  `json:"subject"`
	Operator RuleOperator `json:"operator"`
	Value    string       `json:"value,omitempty"`
	Values   []string     `json:"values,omitempty"`
}

// Operands returns the operand list regardless of operator arity.
func (p Predicate) Operands() []string {
	if p.Operator == OpIn {
		return p.Values
	}
	return []string{p.Value}
}

// OrderMatchInput is an order together with the related records a
// predicate may reference.
type OrderMatchInput struct {
	Order          *Order
	ToCollective   *Collective
	FromCollective *Collective
	Tier           *Tier
}

// Matches evaluates the predicate against the order. Unknown subjects
// never match.
func (p Predicate) Matches(in OrderMatchInput) bool {
	switch p.Subject {
	case SubjectDescription:
		return strings.Contains(in.Order.Description, p.Value)

	case SubjectAmount:
		operand, err := strconv.ParseInt(p.Value, 10, 64)
		if err != nil {
			return false
		}
		switch p.Operator {
		case OpEq:
			return in.Order.TotalAmount == operand
		case OpGte:
			return in.Order.TotalAmount >= operand
		case OpLte:
			return in.Order.TotalAmount <= operand
		}
		return false

	case SubjectCurrency:
		return in.Order.Currency == p.Value

	case SubjectFrequency:
		for _, operand := range p.Operands() {
			if interval, ok := IntervalFromFrequency(TierFrequency(operand)); ok && in.Order.Interval == interval {
				return true
			}
		}
		return false

	case SubjectToAccount:
		return in.ToCollective != nil && p.matchesAny(in.ToCollective.Slug)

	case SubjectToAccountType:
		return in.ToCollective != nil && p.matchesAny(string(in.ToCollective.Type))

	case SubjectFromAccountType:
		return in.FromCollective != nil && p.matchesAny(string(in.FromCollective.Type))

	case SubjectTierType:
		return in.Tier != nil && p.matchesAny(string(in.Tier.Type))

	case SubjectPaymentProcessor:
		service := strings.ToLower(in.Order.PaymentMethodService)
		for _, operand := range p.Operands() {
			if service == strings.ToLower(operand) {
				return true
			}
		}
		return false
	}

	return false
}

func (p Predicate) matchesAny(value string) bool {
	for _, operand := range p.Operands() {
		if value == operand {
			return true
		}
	}
	return false
}

// CategoryRule maps an ordered conjunction of predicates to an accounting
// category. Rules belong to a host and are evaluated in Position order,
// first full match wins.
type CategoryRule struct {
	ID                   string
	HostCollectiveID     string
	AccountingCategoryID string
	Position             int
	Predicates           []Predicate
	Category             *AccountingCategory
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Matches reports whether every predicate of the rule matches the order.
func (r *CategoryRule) Matches(in OrderMatchInput) bool {
	for _, p := range r.Predicates {
		if !p.Matches(in) {
			return false
		}
	}
	return true
}

// FirstMatchingRule returns the first rule whose predicates all match, or
// nil when none does.
func FirstMatchingRule(rules []*CategoryRule, in OrderMatchInput) *CategoryRule {
	for _, rule := range rules {
		if rule.Matches(in) {
			return rule
		}
	}
	return nil
}

// Payment method services known to the platform.
var validPaymentServices = map[string]bool{
	"stripe":         true,
	"paypal":         true,
	"wise":           true,
	"privacy":        true,
	"thegivingblock": true,
	"opencollective": true,
}

// ValidPaymentService reports whether s names a known payment method
// service (case-insensitive).
func ValidPaymentService(s string) bool {
	return validPaymentServices[strings.ToLower(s)]
}
