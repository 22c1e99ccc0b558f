package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTaxRateProvider(t *testing.T) {
	ctx := context.Background()
	standard := decimal.NewFromFloat(0.18)

	t.Run("returns default rate for unknown organization", func(t *testing.T) {
		p := NewStaticTaxRateProvider(standard)

		rate, err := p.TaxRate(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, rate.Equal(standard))
	})

	t.Run("override applies only to its organization", func(t *testing.T) {
		p := NewStaticTaxRateProvider(standard)
		orgA := uuid.New()
		orgB := uuid.New()
		p.SetOverride(orgA, decimal.NewFromFloat(0.05))

		rateA, err := p.TaxRate(ctx, orgA)
		require.NoError(t, err)
		assert.Equal(t, "0.05", rateA.String())

		rateB, err := p.TaxRate(ctx, orgB)
		require.NoError(t, err)
		assert.True(t, rateB.Equal(standard))
	})

	t.Run("latest override wins", func(t *testing.T) {
		p := NewStaticTaxRateProvider(standard)
		org := uuid.New()
		p.SetOverride(org, decimal.NewFromFloat(0.05))
		p.SetOverride(org, decimal.NewFromFloat(0.12))

		rate, err := p.TaxRate(ctx, org)
		require.NoError(t, err)
		assert.Equal(t, "0.12", rate.String())
	})
}
