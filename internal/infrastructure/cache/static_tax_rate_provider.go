package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaticTaxRateProvider serves tax rates from memory. It is suitable for
// single-instance deployments and testing.
// WARNING: overrides do not propagate across process instances; a
// distributed deployment should use the Redis provider instead.
type StaticTaxRateProvider struct {
	mu          sync.RWMutex
	defaultRate decimal.Decimal
	overrides   map[uuid.UUID]decimal.Decimal
}

// NewStaticTaxRateProvider creates a provider that answers defaultRate for
// every organization until an override is set.
func NewStaticTaxRateProvider(defaultRate decimal.Decimal) *StaticTaxRateProvider {
	return &StaticTaxRateProvider{
		defaultRate: defaultRate,
		overrides:   make(map[uuid.UUID]decimal.Decimal),
	}
}

// TaxRate returns the override for the organization, or the default
func (p *StaticTaxRateProvider) TaxRate(_ context.Context, orgID uuid.UUID) (decimal.Decimal, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if rate, ok := p.overrides[orgID]; ok {
		return rate, nil
	}
	return p.defaultRate, nil
}

// SetOverride stores a per-organization rate override
func (p *StaticTaxRateProvider) SetOverride(orgID uuid.UUID, rate decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overrides[orgID] = rate
}
