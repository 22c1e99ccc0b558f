package order

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/domain/shared/valueobject"
	"github.com/erp/fulfillment/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service orchestrates the order lifecycle: creation, line editing, the
// approval workflow, dispatch, fulfillment and cancellation. All reads and
// writes are organization-scoped; all mutations of existing aggregates go
// through optimistic locking.
type Service struct {
	orderRepo    order.Repository
	approvalRepo order.ApprovalRecordRepository
	taxRates     TaxRateProvider
	authorizer   Authorizer
	publisher    shared.EventPublisher
	audit        AuditSink
}

// NewService creates a new order Service
func NewService(orderRepo order.Repository, approvalRepo order.ApprovalRecordRepository, taxRates TaxRateProvider, authorizer Authorizer) *Service {
	return &Service{
		orderRepo:    orderRepo,
		approvalRepo: approvalRepo,
		taxRates:     taxRates,
		authorizer:   authorizer,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetAuditSink sets the audit sink for state-changing operations
func (s *Service) SetAuditSink(audit AuditSink) {
	s.audit = audit
}

// Create creates a new order in draft status. The tax rate defaults to the
// organization's configured rate when the request omits it.
func (s *Service) Create(ctx context.Context, orgID, actorID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create",
		telemetry.WithAttribute(telemetry.SpanAttrOrderKind, req.Kind))
	defer span.End()

	kind := order.Kind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewValidationError("kind", "Kind must be PURCHASE or PRODUCTION")
	}

	taxRate, err := s.resolveTaxRate(ctx, orgID, req.TaxRate)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, orgID, kind)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(req.Currency)

	var o *order.Order
	switch kind {
	case order.KindPurchase:
		if req.SupplierID == nil {
			return nil, shared.NewValidationError("supplier_id", "Supplier ID is required for purchase orders")
		}
		o, err = order.NewPurchaseOrder(orgID, orderNumber, *req.SupplierID, req.SupplierName, currency, taxRate, actorID)
		if err != nil {
			return nil, err
		}
		o.PaymentTerms = req.PaymentTerms
		o.DeliveryTerms = req.DeliveryTerms
	case order.KindProduction:
		if req.ProductID == nil || req.BOMID == nil {
			return nil, shared.NewValidationError("product_id", "Product ID and BOM ID are required for production orders")
		}
		target := decimal.Zero
		if req.TargetQuantity != nil {
			target = *req.TargetQuantity
		}
		o, err = order.NewProductionOrder(orgID, orderNumber, *req.ProductID, *req.BOMID, target, order.Priority(req.Priority), currency, taxRate, actorID)
		if err != nil {
			return nil, err
		}
	}

	for _, line := range req.Lines {
		if _, err := o.AddLine(line.ItemID, line.ItemName, line.ItemCode, line.Unit, line.Quantity, line.UnitPrice, line.Discount); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		o.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.recordAudit(ctx, o, actorID, "order.create", "")

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, o.ID.String(),
		telemetry.SpanAttrOrderNumber, o.OrderNumber,
	)
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByID retrieves an order by ID
func (s *Service) GetByID(ctx context.Context, orgID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByOrderNumber retrieves an order by its order number
func (s *Service) GetByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orgID, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter ListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Kind != nil {
		domainFilter.Filters["kind"] = *filter.Kind
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAll(ctx, orgID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, orgID, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToOrderListItemResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a draft order's header fields
func (s *Service) Update(ctx context.Context, orgID, orderID, actorID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	if req.ShippingAmount != nil {
		if err := o.SetShipping(*req.ShippingAmount); err != nil {
			return nil, err
		}
	}
	if req.TargetQuantity != nil {
		if err := o.SetTargetQuantity(*req.TargetQuantity); err != nil {
			return nil, err
		}
	}
	if req.Remark != nil {
		o.SetRemark(*req.Remark)
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, o, actorID, "order.update", "")
	resp := ToOrderResponse(o)
	return &resp, nil
}

// AddLine adds a line to a draft order
func (s *Service) AddLine(ctx context.Context, orgID, orderID, actorID uuid.UUID, req AddLineRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := o.AddLine(req.ItemID, req.ItemName, req.ItemCode, req.Unit, req.Quantity, req.UnitPrice, req.Discount); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, o, actorID, "order.line.add", req.ItemCode)
	resp := ToOrderResponse(o)
	return &resp, nil
}

// UpdateLine replaces the editable fields of a draft order line
func (s *Service) UpdateLine(ctx context.Context, orgID, orderID, lineID, actorID uuid.UUID, req UpdateLineRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.UpdateLine(lineID, req.Quantity, req.UnitPrice, req.Discount); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, o, actorID, "order.line.update", "")
	resp := ToOrderResponse(o)
	return &resp, nil
}

// RemoveLine removes a line from a draft order
func (s *Service) RemoveLine(ctx context.Context, orgID, orderID, lineID, actorID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, o, actorID, "order.line.remove", "")
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Submit submits a draft order for approval
func (s *Service) Submit(ctx context.Context, orgID, orderID, actorID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Submit(actorID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.recordAudit(ctx, o, actorID, "order.submit", "")
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Decide records an approval decision on a pending order. The decision is
// appended to the approval trail and the order transitions accordingly:
// approval moves it forward, rejection returns it to draft for revision.
func (s *Service) Decide(ctx context.Context, orgID, orderID, actorID uuid.UUID, req DecisionRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "decide",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrDecision, req.Decision))
	defer span.End()

	allowed, err := s.authorizer.CanApprove(ctx, orgID, actorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		telemetry.RecordError(span, shared.ErrUnauthorized)
		return nil, shared.ErrUnauthorized
	}

	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	decision := order.Decision(req.Decision)
	record, err := order.NewApprovalRecord(o.ID, actorID, decision, req.Reason)
	if err != nil {
		return nil, err
	}

	switch decision {
	case order.DecisionApproved:
		err = o.Approve(actorID)
	case order.DecisionRejected:
		err = o.Reject(actorID, req.Reason)
	}
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.approvalRepo.Append(ctx, record); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.recordAudit(ctx, o, actorID, "order.decide", string(decision))
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderStatus, string(o.Status))
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Approvals returns the append-only approval trail of an order
func (s *Service) Approvals(ctx context.Context, orgID, orderID uuid.UUID) ([]ApprovalRecordResponse, error) {
	// Resolve through the order to enforce organization scoping.
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	records, err := s.approvalRepo.FindByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return ToApprovalRecordResponses(records), nil
}

// Dispatch sends an approved purchase order to the supplier, or starts
// production for an approved production order
func (s *Service) Dispatch(ctx context.Context, orgID, orderID, actorID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Dispatch(actorID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.recordAudit(ctx, o, actorID, "order.dispatch", "")
	resp := ToOrderResponse(o)
	return &resp, nil
}

// RecordFulfillment records receipt or production output against one line
func (s *Service) RecordFulfillment(ctx context.Context, orgID, orderID, actorID uuid.UUID, req FulfillmentRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "record_fulfillment",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrLineID, req.LineID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrQuantity, req.Quantity.String()))
	defer span.End()

	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.RecordFulfillment(req.LineID, req.Quantity, actorID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.recordAudit(ctx, o, actorID, "order.fulfill", req.Quantity.String())
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderStatus, string(o.Status))
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Cancel cancels an order with an audit reason
func (s *Service) Cancel(ctx context.Context, orgID, orderID, actorID uuid.UUID, req CancelRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(actorID, req.Reason, req.Force); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.recordAudit(ctx, o, actorID, "order.cancel", req.Reason)
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Delete soft-deletes a draft order. Non-draft orders must be cancelled
// instead so the audit trail survives.
func (s *Service) Delete(ctx context.Context, orgID, orderID, actorID uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return err
	}
	if !o.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}

	if err := s.orderRepo.Delete(ctx, orgID, orderID); err != nil {
		return err
	}
	s.recordAudit(ctx, o, actorID, "order.delete", "")
	return nil
}

func (s *Service) resolveTaxRate(ctx context.Context, orgID uuid.UUID, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	if s.taxRates == nil {
		return decimal.Zero, nil
	}
	return s.taxRates.TaxRate(ctx, orgID)
}

func (s *Service) publishEvents(ctx context.Context, o *order.Order) {
	if s.publisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	s.publisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}

func (s *Service) recordAudit(ctx context.Context, o *order.Order, actorID uuid.UUID, action, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, AuditEntry{
		OrganizationID: o.OrganizationID,
		ActorID:        actorID,
		Action:         action,
		AggregateType:  order.AggregateTypeOrder,
		AggregateID:    o.ID,
		Detail:         detail,
	})
}
