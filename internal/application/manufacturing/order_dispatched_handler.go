package manufacturing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/erp/fulfillment/internal/domain/shared"
)

// OrderDispatchedHandler reacts to dispatched production orders by
// expanding the order's BOM so the planned material demand is visible
// the moment production starts.
type OrderDispatchedHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewOrderDispatchedHandler creates a new handler for order dispatched events
func NewOrderDispatchedHandler(service *Service, logger *zap.Logger) *OrderDispatchedHandler {
	return &OrderDispatchedHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderDispatchedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderDispatched}
}

// Handle processes an OrderDispatchedEvent
func (h *OrderDispatchedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	dispatched, ok := event.(*order.OrderDispatchedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderDispatched, event.EventType())
	}

	// Purchase orders carry no BOM; nothing to plan.
	if dispatched.Kind != order.KindProduction {
		return nil
	}

	reqs, err := h.service.MaterialRequirements(ctx, event.OrganizationID(), dispatched.OrderID)
	if err != nil {
		h.logger.Error("failed to expand material requirements for dispatched order",
			zap.String("order_id", dispatched.OrderID.String()),
			zap.String("order_number", dispatched.OrderNumber),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("material requirements planned for dispatched order",
		zap.String("order_id", dispatched.OrderID.String()),
		zap.String("order_number", dispatched.OrderNumber),
		zap.String("target_quantity", reqs.TargetQuantity.String()),
		zap.Int("materials", len(reqs.Requirements)),
		zap.String("total_estimated_cost", reqs.TotalEstimatedCost.String()),
	)
	return nil
}

// Ensure OrderDispatchedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderDispatchedHandler)(nil)
