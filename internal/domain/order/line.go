package order

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineStatus is derived from the line's quantities, never stored
type LineStatus string

const (
	LineStatusPending            LineStatus = "PENDING"
	LineStatusPartiallyFulfilled LineStatus = "PARTIALLY_FULFILLED"
	LineStatusFulfilled          LineStatus = "FULFILLED"
)

// Line is one material/product entry on an order. It carries its own
// quantity ledger: ordered vs fulfilled, with pending always derived as
// ordered - fulfilled. FulfilledQuantity is monotonically non-decreasing.
type Line struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName          string          `gorm:"type:varchar(200);not null"`
	ItemCode          string          `gorm:"type:varchar(50);not null"`
	OrderedQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FulfilledQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit              string          `gorm:"type:varchar(20);not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// NewLine creates a new order line
func NewLine(orderID, itemID uuid.UUID, itemName, itemCode, unit string, quantity, unitPrice, discount decimal.Decimal) (*Line, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("item_id", "Item ID cannot be empty")
	}
	if itemName == "" {
		return nil, shared.NewValidationError("item_name", "Item name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewValidationError("unit", "Unit of measure cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("quantity", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("unit_price", "Unit price cannot be negative")
	}
	if err := validateLineDiscount(quantity, unitPrice, discount); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Line{
		ID:                uuid.New(),
		OrderID:           orderID,
		ItemID:            itemID,
		ItemName:          itemName,
		ItemCode:          itemCode,
		OrderedQuantity:   quantity,
		FulfilledQuantity: decimal.Zero,
		Unit:              unit,
		UnitPrice:         unitPrice,
		Discount:          discount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Total returns quantity x unit price - discount, full precision
func (l *Line) Total() decimal.Decimal {
	return LineTotal(l.OrderedQuantity, l.UnitPrice, l.Discount)
}

// PendingQuantity returns the quantity still to be fulfilled.
// Invariant: fulfilled + pending = ordered.
func (l *Line) PendingQuantity() decimal.Decimal {
	return l.OrderedQuantity.Sub(l.FulfilledQuantity)
}

// Status derives the line status from the quantity ledger
func (l *Line) Status() LineStatus {
	switch {
	case l.FulfilledQuantity.IsZero():
		return LineStatusPending
	case l.FulfilledQuantity.LessThan(l.OrderedQuantity):
		return LineStatusPartiallyFulfilled
	default:
		return LineStatusFulfilled
	}
}

// IsFullyFulfilled returns true if the ordered quantity is fully fulfilled
func (l *Line) IsFullyFulfilled() bool {
	return l.FulfilledQuantity.GreaterThanOrEqual(l.OrderedQuantity)
}

// Update replaces the line's editable fields, draft-only at the aggregate
// level. Ordered quantity cannot drop below what is already fulfilled.
func (l *Line) Update(quantity, unitPrice, discount decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("quantity", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("unit_price", "Unit price cannot be negative")
	}
	if quantity.LessThan(l.FulfilledQuantity) {
		return shared.NewValidationError("quantity", "Ordered quantity cannot be less than fulfilled quantity")
	}
	if err := validateLineDiscount(quantity, unitPrice, discount); err != nil {
		return err
	}

	l.OrderedQuantity = quantity
	l.UnitPrice = unitPrice
	l.Discount = discount
	l.UpdatedAt = time.Now()
	return nil
}

// AddFulfilled records a fulfillment against the line. The quantity must be
// positive and must not exceed the pending quantity; over-fulfillment is
// rejected outright, never clamped.
func (l *Line) AddFulfilled(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("quantity", "Fulfillment quantity must be positive")
	}
	if quantity.GreaterThan(l.PendingQuantity()) {
		return shared.NewDomainError("QUANTITY_CONSERVATION",
			"Fulfillment of "+quantity.String()+" exceeds pending quantity "+l.PendingQuantity().String())
	}

	l.FulfilledQuantity = l.FulfilledQuantity.Add(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// validateLineDiscount enforces 0 <= discount <= quantity x unitPrice
func validateLineDiscount(quantity, unitPrice, discount decimal.Decimal) error {
	if discount.IsNegative() {
		return shared.NewValidationError("discount", "Discount cannot be negative")
	}
	if discount.GreaterThan(quantity.Mul(unitPrice)) {
		return shared.NewValidationError("discount", "Discount cannot exceed line amount")
	}
	return nil
}
