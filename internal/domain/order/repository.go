package order

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence operations for the Order aggregate
type Repository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*Order, error)
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)

	// Save persists a new aggregate
	Save(ctx context.Context, o *Order) error

	// SaveWithLock persists an existing aggregate with an optimistic
	// concurrency check on the version column. Returns
	// shared.ErrConcurrentModified semantics when the aggregate was
	// modified between read and write.
	SaveWithLock(ctx context.Context, o *Order) error

	// Delete soft-deletes a draft order
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	ExistsByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (bool, error)
	GenerateOrderNumber(ctx context.Context, orgID uuid.UUID, kind Kind) (string, error)
}

// ApprovalRecordRepository defines persistence for the append-only approval
// trail. There is deliberately no update or delete.
type ApprovalRecordRepository interface {
	Append(ctx context.Context, record *ApprovalRecord) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ApprovalRecord, error)
}
