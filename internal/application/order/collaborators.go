package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Collaborator interfaces keep external concerns out of the engine. The
// engine asks, it never decides: identity, permissions, catalog data and
// tax configuration are all supplied by callers through these contracts.

// Authorizer answers whether an actor may approve orders. Approval
// submission is open to any authenticated actor; only the decision step is
// gated.
type Authorizer interface {
	CanApprove(ctx context.Context, orgID, actorID uuid.UUID) (bool, error)
}

// TaxRateProvider supplies the organization's tax rate as a fraction
// (0.18 for 18%). Implementations resolve it from configuration, with
// caching as a backend concern.
type TaxRateProvider interface {
	TaxRate(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, error)
}

// AuditSink receives audit entries for state-changing operations.
// Delivery is fire-and-forget: a sink failure never fails the operation.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditEntry is one audit trail line for a state-changing operation
type AuditEntry struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	ActorID        uuid.UUID `json:"actor_id"`
	Action         string    `json:"action"`
	AggregateType  string    `json:"aggregate_type"`
	AggregateID    uuid.UUID `json:"aggregate_id"`
	Detail         string    `json:"detail,omitempty"`
}
