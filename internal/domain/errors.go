package domain

import "errors"

var (
	// Ledger errors
	ErrCollectiveNotFound = errors.New("collective not found")
	ErrIncompletePair     = errors.New("transaction pair is missing a side")
	ErrInvalidPairTypes   = errors.New("transaction pair must be one credit and one debit")
	ErrGroupMismatch      = errors.New("transaction pair sides belong to different groups")
	ErrPairNotBalanced    = errors.New("transaction pair amounts do not sum to zero")

	// Carryforward errors
	ErrCarryforwardDateInFuture = errors.New("carryforward date cannot be in the future")
	ErrNoHostFound              = errors.New("no host found for collective at carryforward date")
	ErrCarryforwardExists       = errors.New("a balance carryforward already exists at this date")
	ErrMultipleNonZeroBalances  = errors.New("multiple non-zero balances across hosts require manual review")
	ErrHistoricalHostMismatch   = errors.New("non-zero balance does not match the historical host")
	ErrBalanceMismatch          = errors.New("computed balance does not match official balance")

	// Categorization errors
	ErrOrderNotFound      = errors.New("order not found")
	ErrCategoryNotFound   = errors.New("accounting category not found")
	ErrRuleNotFound       = errors.New("category rule not found")
	ErrUnknownSubject     = errors.New("unknown predicate subject")
	ErrOperatorNotAllowed = errors.New("operator not allowed for subject")
	ErrInvalidPredicate   = errors.New("invalid predicate value")

	// FX errors
	ErrFxRateUnavailable = errors.New("no fx rate available for currency pair")
)
