package order

import (
	"github.com/shopspring/decimal"
)

// Financial calculation primitives. All functions are pure and keep full
// decimal precision; rounding to the currency minor unit happens only when
// amounts cross the persistence boundary.

// LineTotal computes quantity x unitPrice - discount
func LineTotal(quantity, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Sub(discount)
}

// Subtotal sums the line totals of the given lines
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].Total())
	}
	return total
}

// TaxAmount computes subtotal x taxRate. The rate is a fraction (0.18 for
// 18%), supplied by configuration, never hard-coded here.
func TaxAmount(subtotal, taxRate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRate)
}

// GrandTotal computes subtotal + taxAmount + shippingAmount
func GrandTotal(subtotal, taxAmount, shippingAmount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(taxAmount).Add(shippingAmount)
}

// Totals holds the derived financial roll-up of an order
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	ShippingAmount decimal.Decimal
	GrandTotal     decimal.Decimal
}

// ComputeTotals derives the full financial roll-up from the current lines.
// DiscountAmount reports the sum of per-line discounts already reflected in
// the subtotal.
func ComputeTotals(lines []Line, taxRate, shippingAmount decimal.Decimal) Totals {
	subtotal := Subtotal(lines)
	discount := decimal.Zero
	for i := range lines {
		discount = discount.Add(lines[i].Discount)
	}
	tax := TaxAmount(subtotal, taxRate)
	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		ShippingAmount: shippingAmount,
		GrandTotal:     GrandTotal(subtotal, tax, shippingAmount),
	}
}
