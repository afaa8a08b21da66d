package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the side of a double-entry pair.
type TransactionType string

const (
	Credit TransactionType = "CREDIT"
	Debit  TransactionType = "DEBIT"
)

// TransactionKind classifies the economic event a ledger row belongs to.
type TransactionKind string

const (
	KindContribution        TransactionKind = "CONTRIBUTION"
	KindExpense             TransactionKind = "EXPENSE"
	KindAddedFunds          TransactionKind = "ADDED_FUNDS"
	KindHostFee             TransactionKind = "HOST_FEE"
	KindPlatformFee         TransactionKind = "PLATFORM_FEE"
	KindPaymentProcessorFee TransactionKind = "PAYMENT_PROCESSOR_FEE"
	KindBalanceCarryforward TransactionKind = "BALANCE_CARRYFORWARD"
)

// Transaction is a single side (debit or credit) of a ledger event.
// Rows are append-only: once written they are never mutated, only
// soft-deleted. Amounts are integer minor units.
type Transaction struct {
	ID          string
	Type        TransactionType
	Kind        TransactionKind
	Description string

	// Amount is in the collective's currency; AmountInHostCurrency is the
	// same value converted at HostCurrencyFxRate.
	Amount               int64
	Currency             string
	AmountInHostCurrency int64
	HostCurrency         string
	HostCurrencyFxRate   decimal.Decimal

	PlatformFeeInHostCurrency         int64
	HostFeeInHostCurrency             int64
	PaymentProcessorFeeInHostCurrency int64
	TaxAmount                         int64

	CollectiveID     string
	FromCollectiveID string
	HostCollectiveID *string

	TransactionGroup uuid.UUID
	IsInternal       bool

	CreatedAt time.Time
	ClearedAt time.Time
	DeletedAt *time.Time
}

// NetAmountInHostCurrency is the quantity balances are computed from:
// the host-currency amount plus all fee components plus the tax amount
// converted at the row's FX rate.
func (t *Transaction) NetAmountInHostCurrency() int64 {
	net := t.AmountInHostCurrency +
		t.PlatformFeeInHostCurrency +
		t.HostFeeInHostCurrency +
		t.PaymentProcessorFeeInHostCurrency

	if t.TaxAmount != 0 {
		net += RoundHalfAwayFromZero(decimal.NewFromInt(t.TaxAmount).Mul(t.HostCurrencyFxRate))
	}

	return net
}

// TransactionPair is a matched credit/debit created atomically.
type TransactionPair struct {
	Credit *Transaction
	Debit  *Transaction
}

// Validate enforces the double-entry invariants on the pair before it is
// persisted: matching group, opposite types, amounts summing to zero in
// both currencies.
func (p *TransactionPair) Validate() error {
	if p.Credit == nil || p.Debit == nil {
		return ErrIncompletePair
	}

	if p.Credit.Type != Credit || p.Debit.Type != Debit {
		return ErrInvalidPairTypes
	}

	if p.Credit.TransactionGroup != p.Debit.TransactionGroup {
		return ErrGroupMismatch
	}

	if p.Credit.Amount+p.Debit.Amount != 0 {
		return ErrPairNotBalanced
	}

	if p.Credit.AmountInHostCurrency+p.Debit.AmountInHostCurrency != 0 {
		return ErrPairNotBalanced
	}

	return nil
}

// RoundHalfAwayFromZero rounds a decimal to integer minor units, ties
// going away from zero (2.5 -> 3, -2.5 -> -3).
func RoundHalfAwayFromZero(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// ConvertAmount converts integer minor units at the given rate, rounding
// half away from zero.
func ConvertAmount(amount int64, rate decimal.Decimal) int64 {
	return RoundHalfAwayFromZero(decimal.NewFromInt(amount).Mul(rate))
}
