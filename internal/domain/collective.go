package domain

import "time"

// CollectiveType mirrors the account taxonomy of the platform.
type CollectiveType string

const (
	TypeCollective   CollectiveType = "COLLECTIVE"
	TypeOrganization CollectiveType = "ORGANIZATION"
	TypeIndividual   CollectiveType = "INDIVIDUAL"
	TypeFund         CollectiveType = "FUND"
	TypeProject      CollectiveType = "PROJECT"
	TypeEvent        CollectiveType = "EVENT"
)

// ValidCollectiveType reports whether s is a known collective type.
func ValidCollectiveType(s string) bool {
	switch CollectiveType(s) {
	case TypeCollective, TypeOrganization, TypeIndividual, TypeFund, TypeProject, TypeEvent:
		return true
	}
	return false
}

// CollectiveSettings holds host-scoped configuration; Features gates
// optional behavior like contribution categorization.
type CollectiveSettings struct {
	Features map[string]bool `json:"features,omitempty"`
}

// Collective is an account on the platform: a hosted collective, a fiscal
// host, an individual contributor, and so on. Currency is the collective's
// operating currency, which may differ from its host's.
type Collective struct {
	ID               string
	Slug             string
	Name             string
	Type             CollectiveType
	Currency         string
	HostCollectiveID *string
	Settings         CollectiveSettings
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsHost reports whether the collective hosts itself (fiscal host).
func (c *Collective) IsHost() bool {
	return c.HostCollectiveID != nil && *c.HostCollectiveID == c.ID
}
