package order

import (
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated        = "OrderCreated"
	EventTypeOrderSubmitted      = "OrderSubmitted"
	EventTypeOrderApproved       = "OrderApproved"
	EventTypeOrderRejected       = "OrderRejected"
	EventTypeOrderDispatched     = "OrderDispatched"
	EventTypeFulfillmentRecorded = "FulfillmentRecorded"
	EventTypeOrderFulfilled      = "OrderFulfilled"
	EventTypeOrderCancelled      = "OrderCancelled"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Kind        Kind      `json:"kind"`
	CreatedBy   uuid.UUID `json:"created_by"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Kind:            o.Kind,
		CreatedBy:       o.CreatedBy,
	}
}

// OrderSubmittedEvent is raised when an order is submitted for approval
type OrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	ActorID     uuid.UUID       `json:"actor_id"`
	LineCount   int             `json:"line_count"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// NewOrderSubmittedEvent creates a new OrderSubmittedEvent
func NewOrderSubmittedEvent(o *Order, actorID uuid.UUID) *OrderSubmittedEvent {
	return &OrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSubmitted, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		ActorID:         actorID,
		LineCount:       len(o.Lines),
		GrandTotal:      o.GrandTotal,
	}
}

// OrderApprovedEvent is raised when an order is approved
type OrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ActorID     uuid.UUID `json:"actor_id"`
}

// NewOrderApprovedEvent creates a new OrderApprovedEvent
func NewOrderApprovedEvent(o *Order, actorID uuid.UUID) *OrderApprovedEvent {
	return &OrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderApproved, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		ActorID:         actorID,
	}
}

// OrderRejectedEvent is raised when a pending order is rejected back to draft
type OrderRejectedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ActorID     uuid.UUID `json:"actor_id"`
	Reason      string    `json:"reason"`
}

// NewOrderRejectedEvent creates a new OrderRejectedEvent
func NewOrderRejectedEvent(o *Order, actorID uuid.UUID, reason string) *OrderRejectedEvent {
	return &OrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRejected, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		ActorID:         actorID,
		Reason:          reason,
	}
}

// OrderDispatchedEvent is raised when an order is sent / production starts
type OrderDispatchedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Kind        Kind      `json:"kind"`
	ActorID     uuid.UUID `json:"actor_id"`
}

// NewOrderDispatchedEvent creates a new OrderDispatchedEvent
func NewOrderDispatchedEvent(o *Order, actorID uuid.UUID) *OrderDispatchedEvent {
	return &OrderDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDispatched, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Kind:            o.Kind,
		ActorID:         actorID,
	}
}

// FulfillmentRecordedEvent is raised for each fulfillment applied to a line
type FulfillmentRecordedEvent struct {
	shared.BaseDomainEvent
	OrderID           uuid.UUID       `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	LineID            uuid.UUID       `json:"line_id"`
	ItemID            uuid.UUID       `json:"item_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	PendingQuantity   decimal.Decimal `json:"pending_quantity"`
	ActorID           uuid.UUID       `json:"actor_id"`
}

// NewFulfillmentRecordedEvent creates a new FulfillmentRecordedEvent
func NewFulfillmentRecordedEvent(o *Order, line *Line, quantity decimal.Decimal, actorID uuid.UUID) *FulfillmentRecordedEvent {
	return &FulfillmentRecordedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeFulfillmentRecorded, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:           o.ID,
		OrderNumber:       o.OrderNumber,
		LineID:            line.ID,
		ItemID:            line.ItemID,
		Quantity:          quantity,
		FulfilledQuantity: line.FulfilledQuantity,
		PendingQuantity:   line.PendingQuantity(),
		ActorID:           actorID,
	}
}

// OrderFulfilledEvent is raised when every line reaches full fulfillment
type OrderFulfilledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Kind        Kind      `json:"kind"`
	ActorID     uuid.UUID `json:"actor_id"`
}

// NewOrderFulfilledEvent creates a new OrderFulfilledEvent
func NewOrderFulfilledEvent(o *Order, actorID uuid.UUID) *OrderFulfilledEvent {
	return &OrderFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFulfilled, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Kind:            o.Kind,
		ActorID:         actorID,
	}
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ActorID     uuid.UUID `json:"actor_id"`
	Reason      string    `json:"reason"`
	Forced      bool      `json:"forced"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, actorID uuid.UUID, reason string, forced bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		ActorID:         actorID,
		Reason:          reason,
		Forced:          forced,
	}
}
