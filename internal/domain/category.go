package domain

import "time"

// CategoryAppliesTo scopes an accounting category to the host's own
// books, its hosted collectives, or both.
type CategoryAppliesTo string

const (
	AppliesToHost              CategoryAppliesTo = "HOST"
	AppliesToHostedCollectives CategoryAppliesTo = "HOSTED_COLLECTIVES"
	AppliesToAny               CategoryAppliesTo = "ANY"
)

// CategoryKind is the class of financial document a category classifies.
type CategoryKind string

const (
	CategoryContribution CategoryKind = "CONTRIBUTION"
	CategoryExpense      CategoryKind = "EXPENSE"
	CategoryAddedFunds   CategoryKind = "ADDED_FUNDS"
)

// AccountingCategory is one entry of a host-scoped bookkeeping taxonomy,
// applied to orders and expenses for reporting and export.
type AccountingCategory struct {
	ID               string
	HostCollectiveID string
	Code             string
	Name             string
	Kind             CategoryKind
	AppliesTo        CategoryAppliesTo
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
