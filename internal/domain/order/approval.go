package order

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
)

// Decision is the outcome of an approval review
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// IsValid checks if the decision is a valid Decision
func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// ApprovalRecord captures one approval or rejection decision on an order.
// Records are append-only: an order accumulates one per review across
// resubmission cycles and none is ever mutated or removed.
type ApprovalRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Decision  Decision  `gorm:"type:varchar(10);not null"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null"`
	Reason    string    `gorm:"type:varchar(500)"`
	DecidedAt time.Time `gorm:"not null"`
}

// NewApprovalRecord creates an approval record. A reason is required for
// rejections and optional for approvals.
func NewApprovalRecord(orderID, actorID uuid.UUID, decision Decision, reason string) (*ApprovalRecord, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("order_id", "Order ID cannot be empty")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewValidationError("actor_id", "Actor ID cannot be empty")
	}
	if !decision.IsValid() {
		return nil, shared.NewValidationError("decision", "Decision must be APPROVED or REJECTED")
	}
	if decision == DecisionRejected && reason == "" {
		return nil, shared.NewValidationError("reason", "Rejection reason is required")
	}

	return &ApprovalRecord{
		ID:        uuid.New(),
		OrderID:   orderID,
		Decision:  decision,
		ActorID:   actorID,
		Reason:    reason,
		DecidedAt: time.Now(),
	}, nil
}
