package models

import (
	"testing"

	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/erp/fulfillment/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency valueobject.Currency
		want     string
	}{
		{"rounds half-up to the minor unit", "1234.565", "INR", "1234.57"},
		{"rounds down below the midpoint", "99.994", "USD", "99.99"},
		{"keeps exact amounts", "10.5", "EUR", "10.5"},
		{"negative amounts round away from zero", "-2.345", "INR", "-2.35"},
		{"empty currency falls back to the default", "0.005", "", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundMoney(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestOrderModelFromDomain_RoundsAmountsToMinorUnit(t *testing.T) {
	o := &order.Order{
		OrderNumber:    "PO-2026-00042",
		Kind:           order.KindPurchase,
		Status:         order.StatusDraft,
		Currency:       valueobject.DefaultCurrency,
		TaxRate:        decimal.RequireFromString("0.18"),
		Subtotal:       decimal.RequireFromString("1047.375"),
		TaxAmount:      decimal.RequireFromString("188.5275"),
		DiscountAmount: decimal.RequireFromString("2.625"),
		ShippingAmount: decimal.RequireFromString("49.999"),
		GrandTotal:     decimal.RequireFromString("1285.9015"),
		CreatedBy:      uuid.New(),
		Lines: []order.Line{
			{
				ID:              uuid.New(),
				ItemID:          uuid.New(),
				ItemName:        "Clinker",
				ItemCode:        "RM-001",
				OrderedQuantity: decimal.RequireFromString("10.5"),
				Unit:            "MT",
				UnitPrice:       decimal.RequireFromString("99.7525"),
				Discount:        decimal.RequireFromString("0.125"),
			},
		},
	}

	m := OrderModelFromDomain(o)

	assert.Equal(t, "1047.38", m.Subtotal.String())
	assert.Equal(t, "188.53", m.TaxAmount.String())
	assert.Equal(t, "2.63", m.DiscountAmount.String())
	assert.Equal(t, "50", m.ShippingAmount.String())
	assert.Equal(t, "1285.9", m.GrandTotal.String())

	require.Len(t, m.Lines, 1)
	assert.Equal(t, "99.75", m.Lines[0].UnitPrice.String())
	assert.Equal(t, "0.13", m.Lines[0].Discount.String())
	// quantities are not monetary and keep their scale
	assert.Equal(t, "10.5", m.Lines[0].OrderedQuantity.String())
}
