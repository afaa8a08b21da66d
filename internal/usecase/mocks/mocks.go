package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/fiscalhq/ledger/internal/domain"
	"github.com/fiscalhq/ledger/internal/usecase"
)

// MockTransaction is a mock implementation of usecase.Transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of usecase.TransactionManager.
type MockTransactionManager struct {
	Tx        *MockTransaction
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{Tx: &MockTransaction{}}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return m.Tx, nil
}

// MockCollectiveRepository is a mock implementation of CollectiveRepository.
type MockCollectiveRepository struct {
	mu          sync.RWMutex
	collectives map[string]*domain.Collective

	GetByIDFunc          func(ctx context.Context, id string) (*domain.Collective, error)
	GetBySlugFunc        func(ctx context.Context, slug string) (*domain.Collective, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Collective, error)
	ListHostedFunc       func(ctx context.Context, limit, offset int) ([]*domain.Collective, error)
}

func NewMockCollectiveRepository() *MockCollectiveRepository {
	return &MockCollectiveRepository{collectives: make(map[string]*domain.Collective)}
}

// Add seeds a collective for the default map-backed behavior.
func (m *MockCollectiveRepository) Add(c *domain.Collective) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collectives[c.ID] = c
}

func (m *MockCollectiveRepository) GetByID(ctx context.Context, id string) (*domain.Collective, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.collectives[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCollectiveNotFound
}

func (m *MockCollectiveRepository) GetBySlug(ctx context.Context, slug string) (*domain.Collective, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.collectives {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, domain.ErrCollectiveNotFound
}

func (m *MockCollectiveRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Collective, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockCollectiveRepository) ListHosted(ctx context.Context, limit, offset int) ([]*domain.Collective, error) {
	if m.ListHostedFunc != nil {
		return m.ListHostedFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Collective
	for _, c := range m.collectives {
		if c.HostCollectiveID != nil {
			out = append(out, c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	CreatePairFunc              func(ctx context.Context, tx usecase.Transaction, pair *domain.TransactionPair) error
	GetLastWithHostFunc         func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error)
	FindCarryforwardOpeningFunc func(ctx context.Context, tx usecase.Transaction, collectiveID string, openingDate time.Time) (*domain.Transaction, error)
	BalancesFunc                func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error)
	SumNetAmountFunc            func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error)
	ListByCollectiveFunc        func(ctx context.Context, collectiveID string, limit, offset int) ([]*domain.Transaction, error)
	CheckConsistencyFunc        func(ctx context.Context) (usecase.ConsistencyTotals, error)

	CreatedPairs []*domain.TransactionPair
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) CreatePair(ctx context.Context, tx usecase.Transaction, pair *domain.TransactionPair) error {
	if m.CreatePairFunc != nil {
		return m.CreatePairFunc(ctx, tx, pair)
	}
	m.CreatedPairs = append(m.CreatedPairs, pair)
	return nil
}

func (m *MockTransactionRepository) GetLastWithHost(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
	if m.GetLastWithHostFunc != nil {
		return m.GetLastWithHostFunc(ctx, tx, collectiveID, at)
	}
	return nil, domain.ErrNoHostFound
}

func (m *MockTransactionRepository) FindCarryforwardOpening(ctx context.Context, tx usecase.Transaction, collectiveID string, openingDate time.Time) (*domain.Transaction, error) {
	if m.FindCarryforwardOpeningFunc != nil {
		return m.FindCarryforwardOpeningFunc(ctx, tx, collectiveID, openingDate)
	}
	return nil, nil
}

func (m *MockTransactionRepository) BalancesByHostAndCurrency(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
	if m.BalancesFunc != nil {
		return m.BalancesFunc(ctx, tx, collectiveID, endDate)
	}
	return nil, nil
}

func (m *MockTransactionRepository) SumNetAmount(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error) {
	if m.SumNetAmountFunc != nil {
		return m.SumNetAmountFunc(ctx, tx, collectiveID, endDate)
	}
	return 0, nil
}

func (m *MockTransactionRepository) ListByCollective(ctx context.Context, collectiveID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByCollectiveFunc != nil {
		return m.ListByCollectiveFunc(ctx, collectiveID, limit, offset)
	}
	return nil, nil
}

func (m *MockTransactionRepository) CheckConsistency(ctx context.Context) (usecase.ConsistencyTotals, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return usecase.ConsistencyTotals{}, nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.AccountingCategory

	CreateCategoryFunc       func(ctx context.Context, category *domain.AccountingCategory) error
	GetCategoryByIDFunc      func(ctx context.Context, id string) (*domain.AccountingCategory, error)
	ListCategoriesByHostFunc func(ctx context.Context, hostCollectiveID string) ([]*domain.AccountingCategory, error)
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{categories: make(map[string]*domain.AccountingCategory)}
}

func (m *MockCategoryRepository) Add(c *domain.AccountingCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
}

func (m *MockCategoryRepository) CreateCategory(ctx context.Context, category *domain.AccountingCategory) error {
	if m.CreateCategoryFunc != nil {
		return m.CreateCategoryFunc(ctx, category)
	}
	m.Add(category)
	return nil
}

func (m *MockCategoryRepository) GetCategoryByID(ctx context.Context, id string) (*domain.AccountingCategory, error) {
	if m.GetCategoryByIDFunc != nil {
		return m.GetCategoryByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) ListCategoriesByHost(ctx context.Context, hostCollectiveID string) ([]*domain.AccountingCategory, error) {
	if m.ListCategoriesByHostFunc != nil {
		return m.ListCategoriesByHostFunc(ctx, hostCollectiveID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AccountingCategory
	for _, c := range m.categories {
		if c.HostCollectiveID == hostCollectiveID {
			out = append(out, c)
		}
	}
	return out, nil
}

// MockRuleRepository is a mock implementation of RuleRepository.
type MockRuleRepository struct {
	Rules []*domain.CategoryRule

	CreateRuleFunc func(ctx context.Context, rule *domain.CategoryRule) error
	ListByHostFunc func(ctx context.Context, hostCollectiveID string) ([]*domain.CategoryRule, error)
	DeleteRuleFunc func(ctx context.Context, hostCollectiveID, ruleID string) error
}

func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{}
}

func (m *MockRuleRepository) CreateRule(ctx context.Context, rule *domain.CategoryRule) error {
	if m.CreateRuleFunc != nil {
		return m.CreateRuleFunc(ctx, rule)
	}
	m.Rules = append(m.Rules, rule)
	return nil
}

func (m *MockRuleRepository) ListByHost(ctx context.Context, hostCollectiveID string) ([]*domain.CategoryRule, error) {
	if m.ListByHostFunc != nil {
		return m.ListByHostFunc(ctx, hostCollectiveID)
	}
	var out []*domain.CategoryRule
	for _, r := range m.Rules {
		if r.HostCollectiveID == hostCollectiveID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRuleRepository) DeleteRule(ctx context.Context, hostCollectiveID, ruleID string) error {
	if m.DeleteRuleFunc != nil {
		return m.DeleteRuleFunc(ctx, hostCollectiveID, ruleID)
	}
	for i, r := range m.Rules {
		if r.ID == ruleID && r.HostCollectiveID == hostCollectiveID {
			m.Rules = append(m.Rules[:i], m.Rules[i+1:]...)
			return nil
		}
	}
	return domain.ErrRuleNotFound
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	tiers  map[string]*domain.Tier

	GetByIDFunc               func(ctx context.Context, id string) (*domain.Order, error)
	SetAccountingCategoryFunc func(ctx context.Context, orderID, categoryID string, data domain.OrderData, updatedAt time.Time) error
	GetTierFunc               func(ctx context.Context, tierID string) (*domain.Tier, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
		tiers:  make(map[string]*domain.Tier),
	}
}

func (m *MockOrderRepository) AddOrder(o *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

func (m *MockOrderRepository) AddTier(t *domain.Tier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiers[t.ID] = t
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) SetAccountingCategory(ctx context.Context, orderID, categoryID string, data domain.OrderData, updatedAt time.Time) error {
	if m.SetAccountingCategoryFunc != nil {
		return m.SetAccountingCategoryFunc(ctx, orderID, categoryID, data, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.AccountingCategoryID = &categoryID
	o.Data = data
	o.UpdatedAt = updatedAt
	return nil
}

func (m *MockOrderRepository) GetTier(ctx context.Context, tierID string) (*domain.Tier, error) {
	if m.GetTierFunc != nil {
		return m.GetTierFunc(ctx, tierID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tiers[tierID]; ok {
		return t, nil
	}
	return nil, domain.ErrOrderNotFound
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + strconv.Itoa(m.counter)
}

// PassthroughRetrier runs the operation once, without retries.
type PassthroughRetrier struct{}

func (PassthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}
