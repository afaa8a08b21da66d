package usecase

// Feature keys gating optional host behavior.
const (
	// FeatureContributionCategorization enables automatic accounting
	// categorization of incoming contributions for a host.
	FeatureContributionCategorization = "CONTRIBUTION_ACCOUNTING_CATEGORIES"
)
