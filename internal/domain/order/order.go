package order

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Priority represents the scheduling priority of a production order
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// IsValid checks if the priority is a valid Priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Order is the aggregate root for both purchase orders and production
// orders. The two kinds share one lifecycle and fulfillment model; the kind
// selects which of the kind-specific header fields are meaningful.
//
// Financial totals are derived fields: they are recomputed from the current
// lines on every mutation and never trusted independently of them.
type Order struct {
	shared.OrgAggregateRoot
	OrderNumber string              `gorm:"type:varchar(50);not null"`
	Kind        Kind                `gorm:"type:varchar(20);not null"`
	Status      Status              `gorm:"type:varchar(30);not null;default:'DRAFT'"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null"`

	// Purchase order header
	SupplierID    *uuid.UUID `gorm:"type:uuid;index"`
	SupplierName  string     `gorm:"type:varchar(200)"`
	PaymentTerms  string     `gorm:"type:varchar(200)"`
	DeliveryTerms string     `gorm:"type:varchar(200)"`

	// Production order header
	ProductID      *uuid.UUID      `gorm:"type:uuid;index"`
	BOMID          *uuid.UUID      `gorm:"type:uuid;index"`
	TargetQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Priority       Priority        `gorm:"type:varchar(10)"`

	Lines []Line `gorm:"foreignKey:OrderID;references:ID"`

	TaxRate        decimal.Decimal `gorm:"type:decimal(8,6);not null;default:0"`
	ShippingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	CreatedBy    uuid.UUID  `gorm:"type:uuid;not null"`
	SubmittedAt  *time.Time
	ApprovedAt   *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	DispatchedAt *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
	Remark       string `gorm:"type:text"`
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(orgID uuid.UUID, orderNumber string, supplierID uuid.UUID, supplierName string, currency valueobject.Currency, taxRate decimal.Decimal, actorID uuid.UUID) (*Order, error) {
	if err := validateHeader(orderNumber, taxRate, actorID); err != nil {
		return nil, err
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("supplier_id", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("supplier_name", "Supplier name cannot be empty")
	}

	o := newOrder(orgID, orderNumber, KindPurchase, currency, taxRate, actorID)
	o.SupplierID = &supplierID
	o.SupplierName = supplierName
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// NewProductionOrder creates a new production order in DRAFT status
func NewProductionOrder(orgID uuid.UUID, orderNumber string, productID, bomID uuid.UUID, targetQuantity decimal.Decimal, priority Priority, currency valueobject.Currency, taxRate decimal.Decimal, actorID uuid.UUID) (*Order, error) {
	if err := validateHeader(orderNumber, taxRate, actorID); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "Product ID cannot be empty")
	}
	if bomID == uuid.Nil {
		return nil, shared.NewValidationError("bom_id", "BOM ID cannot be empty")
	}
	if targetQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("target_quantity", "Target quantity must be positive")
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return nil, shared.NewValidationError("priority", "Invalid priority")
	}

	o := newOrder(orgID, orderNumber, KindProduction, currency, taxRate, actorID)
	o.ProductID = &productID
	o.BOMID = &bomID
	o.TargetQuantity = targetQuantity
	o.Priority = priority
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

func newOrder(orgID uuid.UUID, orderNumber string, kind Kind, currency valueobject.Currency, taxRate decimal.Decimal, actorID uuid.UUID) *Order {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &Order{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		OrderNumber:      orderNumber,
		Kind:             kind,
		Status:           StatusDraft,
		Currency:         currency,
		TaxRate:          taxRate,
		ShippingAmount:   decimal.Zero,
		Subtotal:         decimal.Zero,
		TaxAmount:        decimal.Zero,
		DiscountAmount:   decimal.Zero,
		GrandTotal:       decimal.Zero,
		TargetQuantity:   decimal.Zero,
		CreatedBy:        actorID,
		Lines:            make([]Line, 0),
	}
}

func validateHeader(orderNumber string, taxRate decimal.Decimal, actorID uuid.UUID) error {
	if orderNumber == "" {
		return shared.NewValidationError("order_number", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return shared.NewValidationError("order_number", "Order number cannot exceed 50 characters")
	}
	if taxRate.IsNegative() {
		return shared.NewValidationError("tax_rate", "Tax rate cannot be negative")
	}
	if actorID == uuid.Nil {
		return shared.NewValidationError("actor_id", "Actor ID cannot be empty")
	}
	return nil
}

// AddLine adds a new line to the order. Only allowed in DRAFT status.
func (o *Order) AddLine(itemID uuid.UUID, itemName, itemCode, unit string, quantity, unitPrice, discount decimal.Decimal) (*Line, error) {
	if o.Status != StatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Lines can only be added in draft status")
	}
	for i := range o.Lines {
		if o.Lines[i].ItemID == itemID {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Item already exists on order, update the line instead")
		}
	}

	line, err := NewLine(o.ID, itemID, itemName, itemCode, unit, quantity, unitPrice, discount)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.touch()
	return line, nil
}

// UpdateLine replaces the editable fields of an existing line. DRAFT only.
func (o *Order) UpdateLine(lineID uuid.UUID, quantity, unitPrice, discount decimal.Decimal) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be updated in draft status")
	}
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			if err := o.Lines[i].Update(quantity, unitPrice, discount); err != nil {
				return err
			}
			o.touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line from the order. DRAFT only.
func (o *Order) RemoveLine(lineID uuid.UUID) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be removed in draft status")
	}
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Order line not found")
}

// SetShipping sets the shipping/overhead amount. DRAFT only.
func (o *Order) SetShipping(amount decimal.Decimal) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Shipping can only be changed in draft status")
	}
	if amount.IsNegative() {
		return shared.NewValidationError("shipping_amount", "Shipping amount cannot be negative")
	}
	o.ShippingAmount = amount
	o.touch()
	return nil
}

// SetTargetQuantity updates a production order's target quantity. DRAFT only;
// material requirements derived from it are recomputed by callers, never cached.
func (o *Order) SetTargetQuantity(quantity decimal.Decimal) error {
	if o.Kind != KindProduction {
		return shared.NewDomainError("INVALID_STATE", "Target quantity applies to production orders only")
	}
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Target quantity can only be changed in draft status")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("target_quantity", "Target quantity must be positive")
	}
	o.TargetQuantity = quantity
	o.touch()
	return nil
}

// SetRemark sets the order remark
func (o *Order) SetRemark(remark string) {
	o.Remark = remark
	o.touch()
}

// Submit transitions DRAFT -> PENDING_APPROVAL. Requires at least one line;
// line-level validity (positive quantity, non-negative price) is guaranteed
// by construction.
func (o *Order) Submit(actorID uuid.UUID) error {
	if !o.Status.CanApply(EventSubmit) {
		return newInvalidTransition(o.Status, EventSubmit)
	}
	if len(o.Lines) == 0 {
		return shared.NewValidationError("lines", "Cannot submit an order without lines")
	}

	now := time.Now()
	o.Status = StatusPendingApproval
	o.SubmittedAt = &now
	o.touch()
	o.AddDomainEvent(NewOrderSubmittedEvent(o, actorID))
	return nil
}

// Approve transitions PENDING_APPROVAL -> APPROVED. The caller is
// responsible for verifying the actor's approval capability beforehand.
func (o *Order) Approve(actorID uuid.UUID) error {
	if !o.Status.CanApply(EventApprove) {
		return newInvalidTransition(o.Status, EventApprove)
	}

	now := time.Now()
	o.Status = StatusApproved
	o.ApprovedAt = &now
	o.ApprovedBy = &actorID
	o.touch()
	o.AddDomainEvent(NewOrderApprovedEvent(o, actorID))
	return nil
}

// Reject transitions PENDING_APPROVAL -> DRAFT, leaving lines untouched so
// the submitter can revise and resubmit. A non-empty reason is required.
func (o *Order) Reject(actorID uuid.UUID, reason string) error {
	if !o.Status.CanApply(EventReject) {
		return newInvalidTransition(o.Status, EventReject)
	}
	if reason == "" {
		return shared.NewValidationError("reason", "Rejection reason is required")
	}

	o.Status = StatusDraft
	o.SubmittedAt = nil
	o.touch()
	o.AddDomainEvent(NewOrderRejectedEvent(o, actorID, reason))
	return nil
}

// Dispatch transitions APPROVED -> IN_PROGRESS: the purchase order is sent
// to the supplier, or production starts.
func (o *Order) Dispatch(actorID uuid.UUID) error {
	if !o.Status.CanApply(EventDispatch) {
		return newInvalidTransition(o.Status, EventDispatch)
	}

	now := time.Now()
	o.Status = StatusInProgress
	o.DispatchedAt = &now
	o.touch()
	o.AddDomainEvent(NewOrderDispatchedEvent(o, actorID))
	return nil
}

// RecordFulfillment records receipt (purchase) or production output against
// one line. The aggregate status is derived from the lines afterwards:
// FULFILLED when every line is fully fulfilled, PARTIAL_FULFILLED otherwise.
func (o *Order) RecordFulfillment(lineID uuid.UUID, quantity decimal.Decimal, actorID uuid.UUID) error {
	if !o.Status.CanApply(EventFulfill) {
		return newInvalidTransition(o.Status, EventFulfill)
	}

	var line *Line
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			line = &o.Lines[i]
			break
		}
	}
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Order line not found")
	}

	if err := line.AddFulfilled(quantity); err != nil {
		return err
	}

	if o.allLinesFulfilled() {
		now := time.Now()
		o.Status = StatusFulfilled
		o.CompletedAt = &now
	} else {
		o.Status = StatusPartialFulfilled
	}

	o.touch()
	o.AddDomainEvent(NewFulfillmentRecordedEvent(o, line, quantity, actorID))
	if o.Status == StatusFulfilled {
		o.AddDomainEvent(NewOrderFulfilledEvent(o, actorID))
	}
	return nil
}

// Cancel transitions any non-terminal status to CANCELLED. Once fulfillment
// has been recorded, cancellation requires the force flag with an audit
// reason. The reason is always required.
func (o *Order) Cancel(actorID uuid.UUID, reason string, force bool) error {
	if !o.Status.CanApply(EventCancel) {
		return newInvalidTransition(o.Status, EventCancel)
	}
	if reason == "" {
		return shared.NewValidationError("reason", "Cancel reason is required")
	}
	if o.hasAnyFulfillment() && !force {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel an order with recorded fulfillment without force flag")
	}

	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.touch()
	o.AddDomainEvent(NewOrderCancelledEvent(o, actorID, reason, force))
	return nil
}

// touch recomputes derived totals on every mutation so stored totals can
// never drift from the lines. The version is bumped by the repository when
// the aggregate is written, not here.
func (o *Order) touch() {
	totals := ComputeTotals(o.Lines, o.TaxRate, o.ShippingAmount)
	o.Subtotal = totals.Subtotal
	o.TaxAmount = totals.TaxAmount
	o.DiscountAmount = totals.DiscountAmount
	o.GrandTotal = totals.GrandTotal
	o.Touch()
}

func (o *Order) allLinesFulfilled() bool {
	for i := range o.Lines {
		if !o.Lines[i].IsFullyFulfilled() {
			return false
		}
	}
	return len(o.Lines) > 0
}

func (o *Order) hasAnyFulfillment() bool {
	for i := range o.Lines {
		if o.Lines[i].FulfilledQuantity.IsPositive() {
			return true
		}
	}
	return false
}

// GetLine returns a line by its ID, or nil
func (o *Order) GetLine(lineID uuid.UUID) *Line {
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			return &o.Lines[i]
		}
	}
	return nil
}

// StatusLabel returns the status in the order kind's vocabulary
func (o *Order) StatusLabel() string {
	return o.Status.Label(o.Kind)
}

// IsDraft returns true if the order is in draft status
func (o *Order) IsDraft() bool {
	return o.Status == StatusDraft
}

// IsTerminal returns true if the order is fulfilled or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// TotalOrderedQuantity sums the ordered quantity across lines
func (o *Order) TotalOrderedQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].OrderedQuantity)
	}
	return total
}

// TotalFulfilledQuantity sums the fulfilled quantity across lines
func (o *Order) TotalFulfilledQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].FulfilledQuantity)
	}
	return total
}

// FulfillmentProgress returns fulfillment progress as a percentage (0-100)
func (o *Order) FulfillmentProgress() decimal.Decimal {
	ordered := o.TotalOrderedQuantity()
	if ordered.IsZero() {
		return decimal.Zero
	}
	return o.TotalFulfilledQuantity().Div(ordered).Mul(decimal.NewFromInt(100)).Round(2)
}
