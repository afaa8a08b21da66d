package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fiscalhq/ledger/internal/domain"
)

// CategorizationUseCase assigns accounting categories to contribution
// orders by evaluating host-configured predicate rules.
//
// Rule authoring (NormalizePredicate, CreateRule) validates eagerly and
// fails loud; applying rules to an order is best-effort and must never
// block order processing.
type CategorizationUseCase struct {
	collectiveRepo CollectiveRepository
	orderRepo      OrderRepository
	ruleRepo       RuleRepository
	categoryRepo   CategoryRepository
	features       FeatureService
	reporter       ErrorReporter
	idGen          IDGenerator
}

// NewCategorizationUseCase creates a new CategorizationUseCase.
func NewCategorizationUseCase(
	collectiveRepo CollectiveRepository,
	orderRepo OrderRepository,
	ruleRepo RuleRepository,
	categoryRepo CategoryRepository,
	features FeatureService,
	reporter ErrorReporter,
	idGen IDGenerator,
) *CategorizationUseCase {
	return &CategorizationUseCase{
		collectiveRepo: collectiveRepo,
		orderRepo:      orderRepo,
		ruleRepo:       ruleRepo,
		categoryRepo:   categoryRepo,
		features:       features,
		reporter:       reporter,
		idGen:          idGen,
	}
}

// NormalizePredicate validates a predicate at authoring time: known
// subject, operator in the subject's allowed set, and every operand in the
// subject's value domain. Account references are resolved against the
// database. Matching later assumes predicates went through this.
func (uc *CategorizationUseCase) NormalizePredicate(ctx context.Context, p domain.Predicate) (domain.Predicate, error) {
	if domain.AllowedOperators(p.Subject) == nil {
		return p, fmt.Errorf("%w: %q", domain.ErrUnknownSubject, p.Subject)
	}

	if !domain.OperatorAllowed(p.Subject, p.Operator) {
		return p, fmt.Errorf("%w: %q on %q", domain.ErrOperatorNotAllowed, p.Operator, p.Subject)
	}

	if p.Operator == domain.OpIn {
		if len(p.Values) == 0 {
			return p, fmt.Errorf("%w: %q requires at least one value", domain.ErrInvalidPredicate, domain.OpIn)
		}
		if p.Value != "" {
			return p, fmt.Errorf("%w: %q takes values, not value", domain.ErrInvalidPredicate, domain.OpIn)
		}
	} else {
		if p.Value == "" {
			return p, fmt.Errorf("%w: %q requires a value", domain.ErrInvalidPredicate, p.Operator)
		}
		if len(p.Values) != 0 {
			return p, fmt.Errorf("%w: %q takes a single value", domain.ErrInvalidPredicate, p.Operator)
		}
	}

	operands := p.Operands()
	normalized := make([]string, len(operands))
	for i, v := range operands {
		nv, err := uc.normalizeValue(ctx, p.Subject, v)
		if err != nil {
			return p, err
		}
		normalized[i] = nv
	}

	if p.Operator == domain.OpIn {
		p.Values = normalized
	} else {
		p.Value = normalized[0]
	}

	return p, nil
}

func (uc *CategorizationUseCase) normalizeValue(ctx context.Context, subject domain.RuleSubject, value string) (string, error) {
	switch subject {
	case domain.SubjectDescription:
		return value, nil

	case domain.SubjectAmount:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return "", fmt.Errorf("%w: amount %q must be a positive integer in minor units", domain.ErrInvalidPredicate, value)
		}
		return strconv.FormatInt(n, 10), nil

	case domain.SubjectCurrency:
		if err := domain.ValidateCurrency(value); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidPredicate, err)
		}
		return domain.NormalizeCurrency(value), nil

	case domain.SubjectFrequency:
		upper := strings.ToUpper(strings.TrimSpace(value))
		if !domain.ValidTierFrequency(upper) {
			return "", fmt.Errorf("%w: %q is not a tier frequency", domain.ErrInvalidPredicate, value)
		}
		return upper, nil

	case domain.SubjectToAccount:
		slug := strings.ToLower(strings.TrimSpace(value))
		if err := domain.ValidateSlug(slug); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidPredicate, err)
		}
		collective, err := uc.collectiveRepo.GetBySlug(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("%w: account %q: %v", domain.ErrInvalidPredicate, slug, err)
		}
		return collective.Slug, nil

	case domain.SubjectToAccountType, domain.SubjectFromAccountType:
		upper := strings.ToUpper(strings.TrimSpace(value))
		if !domain.ValidCollectiveType(upper) {
			return "", fmt.Errorf("%w: %q is not an account type", domain.ErrInvalidPredicate, value)
		}
		return upper, nil

	case domain.SubjectTierType:
		upper := strings.ToUpper(strings.TrimSpace(value))
		if !domain.ValidTierType(upper) {
			return "", fmt.Errorf("%w: %q is not a tier type", domain.ErrInvalidPredicate, value)
		}
		return upper, nil

	case domain.SubjectPaymentProcessor:
		lower := strings.ToLower(strings.TrimSpace(value))
		if !domain.ValidPaymentService(lower) {
			return "", fmt.Errorf("%w: %q is not a payment method service", domain.ErrInvalidPredicate, value)
		}
		return lower, nil
	}

	return "", fmt.Errorf("%w: %q", domain.ErrUnknownSubject, subject)
}

// CreateRuleInput represents input for creating a category rule.
type CreateRuleInput struct {
	HostCollectiveID     string
	AccountingCategoryID string
	Position             int
	Predicates           []domain.Predicate
}

// CreateRule normalizes and persists a new rule for a host. The target
// category must exist and belong to the host.
func (uc *CategorizationUseCase) CreateRule(ctx context.Context, input CreateRuleInput) (*domain.CategoryRule, error) {
	if len(input.Predicates) == 0 {
		return nil, fmt.Errorf("%w: a rule needs at least one predicate", domain.ErrInvalidPredicate)
	}

	category, err := uc.categoryRepo.GetCategoryByID(ctx, input.AccountingCategoryID)
	if err != nil {
		return nil, err
	}
	if category.HostCollectiveID != input.HostCollectiveID {
		return nil, fmt.Errorf("%w: category %s belongs to another host", domain.ErrCategoryNotFound, category.Code)
	}

	predicates := make([]domain.Predicate, len(input.Predicates))
	for i, p := range input.Predicates {
		normalized, err := uc.NormalizePredicate(ctx, p)
		if err != nil {
			return nil, err
		}
		predicates[i] = normalized
	}

	now := time.Now().UTC()
	rule := &domain.CategoryRule{
		ID:                   uc.idGen.Generate(),
		HostCollectiveID:     input.HostCollectiveID,
		AccountingCategoryID: category.ID,
		Position:             input.Position,
		Predicates:           predicates,
		Category:             category,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := uc.ruleRepo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// ListRules returns a host's rules in priority order.
func (uc *CategorizationUseCase) ListRules(ctx context.Context, hostCollectiveID string) ([]*domain.CategoryRule, error) {
	return uc.ruleRepo.ListByHost(ctx, hostCollectiveID)
}

// DeleteRule removes a rule from a host.
func (uc *CategorizationUseCase) DeleteRule(ctx context.Context, hostCollectiveID, ruleID string) error {
	return uc.ruleRepo.DeleteRule(ctx, hostCollectiveID, ruleID)
}

// CreateCategoryInput represents input for creating an accounting category.
type CreateCategoryInput struct {
	HostCollectiveID string
	Code             string
	Name             string
	Kind             domain.CategoryKind
	AppliesTo        domain.CategoryAppliesTo
}

// CreateCategory persists a new accounting category for a host.
func (uc *CategorizationUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.AccountingCategory, error) {
	if strings.TrimSpace(input.Code) == "" {
		return nil, fmt.Errorf("%w: category code cannot be empty", domain.ErrInvalidPredicate)
	}

	if input.AppliesTo == "" {
		input.AppliesTo = domain.AppliesToAny
	}

	now := time.Now().UTC()
	category := &domain.AccountingCategory{
		ID:               uc.idGen.Generate(),
		HostCollectiveID: input.HostCollectiveID,
		Code:             strings.TrimSpace(input.Code),
		Name:             input.Name,
		Kind:             input.Kind,
		AppliesTo:        input.AppliesTo,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.categoryRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategories returns a host's accounting categories.
func (uc *CategorizationUseCase) ListCategories(ctx context.Context, hostCollectiveID string) ([]*domain.AccountingCategory, error) {
	return uc.categoryRepo.ListCategoriesByHost(ctx, hostCollectiveID)
}

// ResolveCategory evaluates rules in priority order against the order and
// returns the first full match's category, or nil when no rule matches.
func (uc *CategorizationUseCase) ResolveCategory(rules []*domain.CategoryRule, in domain.OrderMatchInput) *domain.AccountingCategory {
	rule := domain.FirstMatchingRule(rules, in)
	if rule == nil {
		return nil
	}
	return rule.Category
}

// ApplyRules assigns an accounting category to the order by evaluating
// the order's host's rules. Categorization never blocks order processing:
// any failure is reported to the error sink and swallowed. Returns whether
// a category was applied.
func (uc *CategorizationUseCase) ApplyRules(ctx context.Context, orderID string) bool {
	applied, err := uc.applyRules(ctx, orderID)
	if err != nil {
		uc.reporter.Report(ctx, err, map[string]string{
			"order_id":  orderID,
			"operation": "apply_category_rules",
		})
		return false
	}

	return applied
}

func (uc *CategorizationUseCase) applyRules(ctx context.Context, orderID string) (bool, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return false, err
	}

	// Respect explicit choices: a category already on the order, or one a
	// host admin pinned earlier.
	if order.AccountingCategoryID != nil {
		return false, nil
	}
	if order.Data.ValuesByRole.Get(domain.RoleHostAdmin) != nil {
		return false, nil
	}

	collective, err := uc.collectiveRepo.GetByID(ctx, order.CollectiveID)
	if err != nil {
		return false, err
	}
	if collective.HostCollectiveID == nil {
		return false, nil
	}
	hostID := *collective.HostCollectiveID

	enabled, err := uc.features.HasFeature(ctx, hostID, FeatureContributionCategorization)
	if err != nil {
		return false, err
	}
	if !enabled {
		return false, nil
	}

	rules, err := uc.ruleRepo.ListByHost(ctx, hostID)
	if err != nil {
		return false, err
	}
	if len(rules) == 0 {
		return false, nil
	}

	in, err := uc.buildMatchInput(ctx, order, collective)
	if err != nil {
		return false, err
	}

	rule := domain.FirstMatchingRule(rules, in)
	if rule == nil {
		return false, nil
	}

	category := rule.Category
	if category == nil {
		category, err = uc.categoryRepo.GetCategoryByID(ctx, rule.AccountingCategoryID)
		if err != nil {
			return false, err
		}
	}

	data := order.Data
	data.ValuesByRole.Set(domain.RolePlatform, &domain.CategoryValues{AccountingCategoryID: category.ID})

	if err := uc.orderRepo.SetAccountingCategory(ctx, order.ID, category.ID, data, time.Now().UTC()); err != nil {
		return false, err
	}

	return true, nil
}

func (uc *CategorizationUseCase) buildMatchInput(ctx context.Context, order *domain.Order, to *domain.Collective) (domain.OrderMatchInput, error) {
	in := domain.OrderMatchInput{Order: order, ToCollective: to}

	if order.FromCollectiveID != "" {
		from, err := uc.collectiveRepo.GetByID(ctx, order.FromCollectiveID)
		if err != nil {
			return in, err
		}
		in.FromCollective = from
	}

	if order.TierID != nil {
		tier, err := uc.orderRepo.GetTier(ctx, *order.TierID)
		if err != nil {
			return in, err
		}
		in.Tier = tier
	}

	return in, nil
}
