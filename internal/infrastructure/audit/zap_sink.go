// Package audit provides the structured audit trail sink. Entries are
// emitted as structured log lines so the log pipeline is the system of
// record; nothing in the engine ever reads them back.
package audit

import (
	"context"

	"go.uber.org/zap"

	appOrder "github.com/erp/fulfillment/internal/application/order"
	"github.com/erp/fulfillment/internal/infrastructure/logger"
)

// ZapSink writes audit entries to a dedicated zap logger
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink writing to the given logger under the "audit"
// logger name.
func NewZapSink(base *zap.Logger) *ZapSink {
	return &ZapSink{logger: base.Named("audit")}
}

// Record emits one audit line. It never fails the calling operation.
func (s *ZapSink) Record(ctx context.Context, entry appOrder.AuditEntry) {
	logger.WithTraceContext(ctx, s.logger).Info("audit",
		zap.String("organization_id", entry.OrganizationID.String()),
		zap.String("actor_id", entry.ActorID.String()),
		zap.String("action", entry.Action),
		zap.String("aggregate_type", entry.AggregateType),
		zap.String("aggregate_id", entry.AggregateID.String()),
		zap.String("detail", entry.Detail),
	)
}

var _ appOrder.AuditSink = (*ZapSink)(nil)
