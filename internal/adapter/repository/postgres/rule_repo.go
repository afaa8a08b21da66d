package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fiscalhq/ledger/internal/domain"
)

// RuleRepository implements usecase.RuleRepository. Predicates are stored
// as a jsonb array on the rule row.
type RuleRepository struct {
	db querier
}

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{db: pool}
}

// CreateRule inserts a rule with its normalized predicates. Position is
// assigned after the host's current last rule.
func (r *RuleRepository) CreateRule(ctx context.Context, rule *domain.CategoryRule) error {
	predicates, err := json.Marshal(rule.Predicates)
	if err != nil {
		return fmt.Errorf("failed to encode predicates: %w", err)
	}

	query := `
		INSERT INTO category_rules (id, host_collective_id, accounting_category_id, position, predicates, created_at, updated_at)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM category_rules WHERE host_collective_id = $2),
			$4, $5, $6)
		RETURNING position
	`

	err = r.db.QueryRow(ctx, query,
		rule.ID, rule.HostCollectiveID, rule.AccountingCategoryID,
		predicates, rule.CreatedAt, rule.UpdatedAt,
	).Scan(&rule.Position)
	if err != nil {
		return fmt.Errorf("failed to insert category rule: %w", err)
	}

	return nil
}

// ListByHost returns the host's rules in priority order with their
// category joined in.
func (r *RuleRepository) ListByHost(ctx context.Context, hostCollectiveID string) ([]*domain.CategoryRule, error) {
	query := `
		SELECT r.id, r.host_collective_id, r.accounting_category_id, r.position, r.predicates, r.created_at, r.updated_at,
		       c.id, c.host_collective_id, c.code, c.name, c.kind, c.applies_to, c.created_at, c.updated_at
		FROM category_rules r
		JOIN accounting_categories c ON c.id = r.accounting_category_id
		WHERE r.host_collective_id = $1
		ORDER BY r.position
	`

	rows, err := r.db.Query(ctx, query, hostCollectiveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.CategoryRule
	for rows.Next() {
		var (
			rule       domain.CategoryRule
			cat        domain.AccountingCategory
			catKind    string
			catApplies string
			predicates []byte
		)

		err := rows.Scan(
			&rule.ID, &rule.HostCollectiveID, &rule.AccountingCategoryID, &rule.Position, &predicates, &rule.CreatedAt, &rule.UpdatedAt,
			&cat.ID, &cat.HostCollectiveID, &cat.Code, &cat.Name, &catKind, &catApplies, &cat.CreatedAt, &cat.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(predicates, &rule.Predicates); err != nil {
			return nil, fmt.Errorf("failed to decode predicates for rule %s: %w", rule.ID, err)
		}

		cat.Kind = domain.CategoryKind(catKind)
		cat.AppliesTo = domain.CategoryAppliesTo(catApplies)
		rule.Category = &cat

		rules = append(rules, &rule)
	}

	return rules, rows.Err()
}

// DeleteRule removes a rule, scoped to the host so one host cannot delete
// another's rules.
func (r *RuleRepository) DeleteRule(ctx context.Context, hostCollectiveID, ruleID string) error {
	query := `DELETE FROM category_rules WHERE host_collective_id = $1 AND id = $2`

	tag, err := r.db.Exec(ctx, query, hostCollectiveID, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete category rule: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}
