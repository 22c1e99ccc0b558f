package order

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// CreateOrderRequest creates a purchase or production order in draft status
type CreateOrderRequest struct {
	Kind     string           `json:"kind" binding:"required,oneof=PURCHASE PRODUCTION"`
	Currency string           `json:"currency" binding:"omitempty,len=3"`
	TaxRate  *decimal.Decimal `json:"tax_rate"` // fraction; defaults to org configuration

	// Purchase order fields
	SupplierID    *uuid.UUID `json:"supplier_id"`
	SupplierName  string     `json:"supplier_name" binding:"omitempty,max=200"`
	PaymentTerms  string     `json:"payment_terms" binding:"omitempty,max=200"`
	DeliveryTerms string     `json:"delivery_terms" binding:"omitempty,max=200"`

	// Production order fields
	ProductID      *uuid.UUID       `json:"product_id"`
	BOMID          *uuid.UUID       `json:"bom_id"`
	TargetQuantity *decimal.Decimal `json:"target_quantity"`
	Priority       string           `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`

	Lines  []LineInput `json:"lines"`
	Remark string      `json:"remark" binding:"omitempty,max=2000"`
}

// LineInput represents one line in a create or update request
type LineInput struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	ItemName  string          `json:"item_name" binding:"required,min=1,max=200"`
	ItemCode  string          `json:"item_code" binding:"required,min=1,max=50"`
	Unit      string          `json:"unit" binding:"required,min=1,max=20"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// UpdateOrderRequest updates a draft order's header fields
type UpdateOrderRequest struct {
	ShippingAmount *decimal.Decimal `json:"shipping_amount"`
	TargetQuantity *decimal.Decimal `json:"target_quantity"`
	Remark         *string          `json:"remark" binding:"omitempty,max=2000"`
}

// AddLineRequest adds one line to a draft order
type AddLineRequest struct {
	LineInput
}

// UpdateLineRequest replaces the editable fields of a draft order line
type UpdateLineRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// DecisionRequest records an approval or rejection of a pending order
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Reason   string `json:"reason" binding:"omitempty,max=500"`
}

// FulfillmentRequest records receipt or production output against a line
type FulfillmentRequest struct {
	LineID   uuid.UUID       `json:"line_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// CancelRequest cancels an order with an audit reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
	Force  bool   `json:"force"`
}

// ListFilter represents filter options for the order list
type ListFilter struct {
	Search     string     `form:"search"`
	Kind       *string    `form:"kind" binding:"omitempty,oneof=PURCHASE PRODUCTION"`
	Status     *string    `form:"status"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	ProductID  *uuid.UUID `form:"product_id"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Response DTOs ====================

// LineResponse represents an order line in API responses
type LineResponse struct {
	ID                uuid.UUID       `json:"id"`
	ItemID            uuid.UUID       `json:"item_id"`
	ItemName          string          `json:"item_name"`
	ItemCode          string          `json:"item_code"`
	Unit              string          `json:"unit"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	PendingQuantity   decimal.Decimal `json:"pending_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Discount          decimal.Decimal `json:"discount"`
	LineTotal         decimal.Decimal `json:"line_total"`
	Status            string          `json:"status"`
}

// OrderResponse represents a full order in API responses
type OrderResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	OrderNumber    string     `json:"order_number"`
	Kind           string     `json:"kind"`
	Status         string     `json:"status"`
	StatusLabel    string     `json:"status_label"`
	Currency       string     `json:"currency"`
	SupplierID     *uuid.UUID `json:"supplier_id,omitempty"`
	SupplierName   string     `json:"supplier_name,omitempty"`
	PaymentTerms   string     `json:"payment_terms,omitempty"`
	DeliveryTerms  string     `json:"delivery_terms,omitempty"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	BOMID          *uuid.UUID `json:"bom_id,omitempty"`

	TargetQuantity decimal.Decimal `json:"target_quantity,omitempty"`
	Priority       string          `json:"priority,omitempty"`

	Lines []LineResponse `json:"lines"`

	TaxRate             decimal.Decimal `json:"tax_rate"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	ShippingAmount      decimal.Decimal `json:"shipping_amount"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
	FulfillmentProgress decimal.Decimal `json:"fulfillment_progress"`

	Remark       string     `json:"remark,omitempty"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	ApprovedBy   *uuid.UUID `json:"approved_by,omitempty"`
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int        `json:"version"`
}

// OrderListItemResponse is the compact list projection of an order
type OrderListItemResponse struct {
	ID                  uuid.UUID       `json:"id"`
	OrderNumber         string          `json:"order_number"`
	Kind                string          `json:"kind"`
	Status              string          `json:"status"`
	StatusLabel         string          `json:"status_label"`
	SupplierName        string          `json:"supplier_name,omitempty"`
	LineCount           int             `json:"line_count"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
	FulfillmentProgress decimal.Decimal `json:"fulfillment_progress"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ApprovalRecordResponse represents one approval trail entry
type ApprovalRecordResponse struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	Decision  string    `json:"decision"`
	ActorID   uuid.UUID `json:"actor_id"`
	Reason    string    `json:"reason,omitempty"`
	DecidedAt time.Time `json:"decided_at"`
}

// ==================== Converters ====================

// ToLineResponse converts a domain line to its response DTO
func ToLineResponse(l *order.Line) LineResponse {
	return LineResponse{
		ID:                l.ID,
		ItemID:            l.ItemID,
		ItemName:          l.ItemName,
		ItemCode:          l.ItemCode,
		Unit:              l.Unit,
		OrderedQuantity:   l.OrderedQuantity,
		FulfilledQuantity: l.FulfilledQuantity,
		PendingQuantity:   l.PendingQuantity(),
		UnitPrice:         l.UnitPrice,
		Discount:          l.Discount,
		LineTotal:         l.Total(),
		Status:            string(l.Status()),
	}
}

// ToOrderResponse converts a domain order to its response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]LineResponse, 0, len(o.Lines))
	for i := range o.Lines {
		lines = append(lines, ToLineResponse(&o.Lines[i]))
	}

	return OrderResponse{
		ID:                  o.ID,
		OrganizationID:      o.OrganizationID,
		OrderNumber:         o.OrderNumber,
		Kind:                string(o.Kind),
		Status:              string(o.Status),
		StatusLabel:         o.StatusLabel(),
		Currency:            string(o.Currency),
		SupplierID:          o.SupplierID,
		SupplierName:        o.SupplierName,
		PaymentTerms:        o.PaymentTerms,
		DeliveryTerms:       o.DeliveryTerms,
		ProductID:           o.ProductID,
		BOMID:               o.BOMID,
		TargetQuantity:      o.TargetQuantity,
		Priority:            string(o.Priority),
		Lines:               lines,
		TaxRate:             o.TaxRate,
		Subtotal:            o.Subtotal,
		TaxAmount:           o.TaxAmount,
		DiscountAmount:      o.DiscountAmount,
		ShippingAmount:      o.ShippingAmount,
		GrandTotal:          o.GrandTotal,
		FulfillmentProgress: o.FulfillmentProgress(),
		Remark:              o.Remark,
		CreatedBy:           o.CreatedBy,
		SubmittedAt:         o.SubmittedAt,
		ApprovedAt:          o.ApprovedAt,
		ApprovedBy:          o.ApprovedBy,
		DispatchedAt:        o.DispatchedAt,
		CompletedAt:         o.CompletedAt,
		CancelledAt:         o.CancelledAt,
		CancelReason:        o.CancelReason,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		Version:             o.Version,
	}
}

// ToOrderListItemResponses converts domain orders to list projections
func ToOrderListItemResponses(orders []order.Order) []OrderListItemResponse {
	items := make([]OrderListItemResponse, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		items = append(items, OrderListItemResponse{
			ID:                  o.ID,
			OrderNumber:         o.OrderNumber,
			Kind:                string(o.Kind),
			Status:              string(o.Status),
			StatusLabel:         o.StatusLabel(),
			SupplierName:        o.SupplierName,
			LineCount:           len(o.Lines),
			GrandTotal:          o.GrandTotal,
			FulfillmentProgress: o.FulfillmentProgress(),
			CreatedAt:           o.CreatedAt,
		})
	}
	return items
}

// ToApprovalRecordResponses converts approval records to response DTOs
func ToApprovalRecordResponses(records []order.ApprovalRecord) []ApprovalRecordResponse {
	out := make([]ApprovalRecordResponse, 0, len(records))
	for i := range records {
		r := &records[i]
		out = append(out, ApprovalRecordResponse{
			ID:        r.ID,
			OrderID:   r.OrderID,
			Decision:  string(r.Decision),
			ActorID:   r.ActorID,
			Reason:    r.Reason,
			DecidedAt: r.DecidedAt,
		})
	}
	return out
}
