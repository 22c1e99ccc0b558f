package models

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/erp/fulfillment/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	OrgAggregateModel
	OrderNumber string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_org_number,priority:2"`
	Kind        order.Kind   `gorm:"type:varchar(20);not null;index"`
	Status      order.Status `gorm:"type:varchar(30);not null;default:'DRAFT';index"`
	Currency    string       `gorm:"type:varchar(3);not null"`

	SupplierID    *uuid.UUID `gorm:"type:uuid;index"`
	SupplierName  string     `gorm:"type:varchar(200)"`
	PaymentTerms  string     `gorm:"type:varchar(200)"`
	DeliveryTerms string     `gorm:"type:varchar(200)"`

	ProductID      *uuid.UUID      `gorm:"type:uuid;index"`
	BOMID          *uuid.UUID      `gorm:"type:uuid;index"`
	TargetQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Priority       order.Priority  `gorm:"type:varchar(10)"`

	Lines []OrderLineModel `gorm:"foreignKey:OrderID;references:ID"`

	TaxRate        decimal.Decimal `gorm:"type:decimal(8,6);not null;default:0"`
	ShippingAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	CreatedBy    uuid.UUID `gorm:"type:uuid;not null"`
	SubmittedAt  *time.Time
	ApprovedAt   *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	DispatchedAt *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string         `gorm:"type:varchar(500)"`
	Remark       string         `gorm:"type:text"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		OrderNumber:    m.OrderNumber,
		Kind:           m.Kind,
		Status:         m.Status,
		Currency:       valueobject.Currency(m.Currency),
		SupplierID:     m.SupplierID,
		SupplierName:   m.SupplierName,
		PaymentTerms:   m.PaymentTerms,
		DeliveryTerms:  m.DeliveryTerms,
		ProductID:      m.ProductID,
		BOMID:          m.BOMID,
		TargetQuantity: m.TargetQuantity,
		Priority:       m.Priority,
		TaxRate:        m.TaxRate,
		ShippingAmount: m.ShippingAmount,
		Subtotal:       m.Subtotal,
		TaxAmount:      m.TaxAmount,
		DiscountAmount: m.DiscountAmount,
		GrandTotal:     m.GrandTotal,
		CreatedBy:      m.CreatedBy,
		SubmittedAt:    m.SubmittedAt,
		ApprovedAt:     m.ApprovedAt,
		ApprovedBy:     m.ApprovedBy,
		DispatchedAt:   m.DispatchedAt,
		CompletedAt:    m.CompletedAt,
		CancelledAt:    m.CancelledAt,
		CancelReason:   m.CancelReason,
		Remark:         m.Remark,
		Lines:          make([]order.Line, len(m.Lines)),
	}
	m.PopulateOrgAggregateRoot(&o.OrgAggregateRoot)
	for i, line := range m.Lines {
		o.Lines[i] = *line.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order aggregate.
// Monetary amounts are rounded to the minor unit here.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainOrgAggregateRoot(o.OrgAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.Kind = o.Kind
	m.Status = o.Status
	m.Currency = string(o.Currency)
	m.SupplierID = o.SupplierID
	m.SupplierName = o.SupplierName
	m.PaymentTerms = o.PaymentTerms
	m.DeliveryTerms = o.DeliveryTerms
	m.ProductID = o.ProductID
	m.BOMID = o.BOMID
	m.TargetQuantity = o.TargetQuantity
	m.Priority = o.Priority
	m.TaxRate = o.TaxRate
	m.ShippingAmount = roundMoney(o.ShippingAmount, o.Currency)
	m.Subtotal = roundMoney(o.Subtotal, o.Currency)
	m.TaxAmount = roundMoney(o.TaxAmount, o.Currency)
	m.DiscountAmount = roundMoney(o.DiscountAmount, o.Currency)
	m.GrandTotal = roundMoney(o.GrandTotal, o.Currency)
	m.CreatedBy = o.CreatedBy
	m.SubmittedAt = o.SubmittedAt
	m.ApprovedAt = o.ApprovedAt
	m.ApprovedBy = o.ApprovedBy
	m.DispatchedAt = o.DispatchedAt
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Remark = o.Remark
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i := range o.Lines {
		m.Lines[i] = *OrderLineModelFromDomain(&o.Lines[i], o.Currency)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for the order Line entity.
// Quantities keep their full scale; only the price fields are monetary.
type OrderLineModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName          string          `gorm:"type:varchar(200);not null"`
	ItemCode          string          `gorm:"type:varchar(50);not null"`
	OrderedQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FulfilledQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Unit              string          `gorm:"type:varchar(20);not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain Line entity.
func (m *OrderLineModel) ToDomain() *order.Line {
	return &order.Line{
		ID:                m.ID,
		OrderID:           m.OrderID,
		ItemID:            m.ItemID,
		ItemName:          m.ItemName,
		ItemCode:          m.ItemCode,
		OrderedQuantity:   m.OrderedQuantity,
		FulfilledQuantity: m.FulfilledQuantity,
		Unit:              m.Unit,
		UnitPrice:         m.UnitPrice,
		Discount:          m.Discount,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// OrderLineModelFromDomain creates a persistence model from a domain Line.
// The currency of the owning order governs the stored price scale.
func OrderLineModelFromDomain(l *order.Line, currency valueobject.Currency) *OrderLineModel {
	return &OrderLineModel{
		ID:                l.ID,
		OrderID:           l.OrderID,
		ItemID:            l.ItemID,
		ItemName:          l.ItemName,
		ItemCode:          l.ItemCode,
		OrderedQuantity:   l.OrderedQuantity,
		FulfilledQuantity: l.FulfilledQuantity,
		Unit:              l.Unit,
		UnitPrice:         roundMoney(l.UnitPrice, currency),
		Discount:          roundMoney(l.Discount, currency),
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// ApprovalRecordModel is the persistence model for the append-only approval
// trail. Rows are inserted and read, never updated or deleted.
type ApprovalRecordModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Decision  order.Decision `gorm:"type:varchar(10);not null"`
	ActorID   uuid.UUID      `gorm:"type:uuid;not null"`
	Reason    string         `gorm:"type:varchar(500)"`
	DecidedAt time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ApprovalRecordModel) TableName() string {
	return "order_approval_records"
}

// ToDomain converts the persistence model to a domain ApprovalRecord.
func (m *ApprovalRecordModel) ToDomain() *order.ApprovalRecord {
	return &order.ApprovalRecord{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Decision:  m.Decision,
		ActorID:   m.ActorID,
		Reason:    m.Reason,
		DecidedAt: m.DecidedAt,
	}
}

// ApprovalRecordModelFromDomain creates a persistence model from a domain ApprovalRecord.
func ApprovalRecordModelFromDomain(r *order.ApprovalRecord) *ApprovalRecordModel {
	return &ApprovalRecordModel{
		ID:        r.ID,
		OrderID:   r.OrderID,
		Decision:  r.Decision,
		ActorID:   r.ActorID,
		Reason:    r.Reason,
		DecidedAt: r.DecidedAt,
	}
}
