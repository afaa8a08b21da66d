package domain

import "time"

// OrderInterval is the recurrence of a contribution.
type OrderInterval string

const (
	IntervalOneTime OrderInterval = "onetime"
	IntervalMonth   OrderInterval = "month"
	IntervalYear    OrderInterval = "year"
)

// TierFrequency is the authoring-side vocabulary for contribution
// recurrence, as used in category rule predicates.
type TierFrequency string

const (
	FrequencyOneTime TierFrequency = "ONETIME"
	FrequencyMonthly TierFrequency = "MONTHLY"
	FrequencyYearly  TierFrequency = "YEARLY"
)

// IntervalFromFrequency maps a tier frequency to the order interval it
// implies.
func IntervalFromFrequency(f TierFrequency) (OrderInterval, bool) {
	switch f {
	case FrequencyOneTime:
		return IntervalOneTime, true
	case FrequencyMonthly:
		return IntervalMonth, true
	case FrequencyYearly:
		return IntervalYear, true
	}
	return "", false
}

// ValidTierFrequency reports whether s is a known tier frequency.
func ValidTierFrequency(s string) bool {
	_, ok := IntervalFromFrequency(TierFrequency(s))
	return ok
}

// TierType classifies a contribution tier.
type TierType string

const (
	TierTier       TierType = "TIER"
	TierMembership TierType = "MEMBERSHIP"
	TierDonation   TierType = "DONATION"
	TierTicket     TierType = "TICKET"
	TierProduct    TierType = "PRODUCT"
	TierService    TierType = "SERVICE"
)

// ValidTierType reports whether s is a known tier type.
func ValidTierType(s string) bool {
	switch TierType(s) {
	case TierTier, TierMembership, TierDonation, TierTicket, TierProduct, TierService:
		return true
	}
	return false
}

// Tier is a contribution tier offered by a collective.
type Tier struct {
	ID           string
	CollectiveID string
	Name         string
	Type         TierType
	Interval     OrderInterval
}

// OrderRole identifies who (or what) set a role-scoped value on an order.
type OrderRole string

const (
	RoleCollectiveAdmin OrderRole = "collectiveAdmin"
	RoleHostAdmin       OrderRole = "hostAdmin"
	RolePlatform        OrderRole = "platform"
)

// CategoryValues is the per-role value record kept on an order. Today it
// only carries the accounting category, but it is a struct so new
// role-scoped values keep a typed shape.
type CategoryValues struct {
	AccountingCategoryID string `json:"accountingCategoryId"`
}

// ValuesByRole records, per role, the values that role last set on the
// order. Writing one role's values never clobbers another's.
type ValuesByRole struct {
	CollectiveAdmin *CategoryValues `json:"collectiveAdmin,omitempty"`
	HostAdmin       *CategoryValues `json:"hostAdmin,omitempty"`
	Platform        *CategoryValues `json:"platform,omitempty"`
}

// Get returns the values set by the given role, or nil.
func (v *ValuesByRole) Get(role OrderRole) *CategoryValues {
	switch role {
	case RoleCollectiveAdmin:
		return v.CollectiveAdmin
	case RoleHostAdmin:
		return v.HostAdmin
	case RolePlatform:
		return v.Platform
	}
	return nil
}

// Set records values for the given role, preserving the other roles.
func (v *ValuesByRole) Set(role OrderRole, values *CategoryValues) {
	switch role {
	case RoleCollectiveAdmin:
		v.CollectiveAdmin = values
	case RoleHostAdmin:
		v.HostAdmin = values
	case RolePlatform:
		v.Platform = values
	}
}

// OrderData is the structured payload stored alongside an order.
type OrderData struct {
	ValuesByRole ValuesByRole `json:"valuesByRole"`
}

// Order is a contribution from one collective to another.
type Order struct {
	ID                   string
	Description          string
	TotalAmount          int64
	Currency             string
	Interval             OrderInterval
	CollectiveID         string
	FromCollectiveID     string
	TierID               *string
	PaymentMethodService string
	AccountingCategoryID *string
	Data                 OrderData
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
