package manufacturing

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionBatch is one production run against a production order.
// Fulfillment of the order and consumption records are both scoped to a
// batch.
type ProductionBatch struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber    string          `gorm:"type:varchar(50);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// NewProductionBatch creates a new production batch
func NewProductionBatch(orgID, orderID uuid.UUID, batchNumber, unit string, quantity decimal.Decimal, actorID uuid.UUID) (*ProductionBatch, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("order_id", "Order ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewValidationError("batch_number", "Batch number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("quantity", "Batch quantity must be positive")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewValidationError("actor_id", "Actor ID cannot be empty")
	}

	now := time.Now()
	return &ProductionBatch{
		ID:             uuid.New(),
		OrganizationID: orgID,
		OrderID:        orderID,
		BatchNumber:    batchNumber,
		Quantity:       quantity,
		Unit:           unit,
		CreatedBy:      actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
