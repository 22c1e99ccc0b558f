package manufacturing

import (
	"context"

	"github.com/google/uuid"
)

// BOMRepository reads bill-of-materials reference data from the product
// catalog. The engine never writes BOMs.
type BOMRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*BillOfMaterials, error)
	FindActiveByProduct(ctx context.Context, orgID, productID uuid.UUID) (*BillOfMaterials, error)
}

// BatchRepository defines persistence for production batches
type BatchRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*ProductionBatch, error)
	FindByOrder(ctx context.Context, orgID, orderID uuid.UUID) ([]ProductionBatch, error)
	Save(ctx context.Context, batch *ProductionBatch) error
}

// ConsumptionRecordRepository defines persistence for the append-only
// consumption trail. Records are never updated or deleted.
type ConsumptionRecordRepository interface {
	Append(ctx context.Context, record *ConsumptionRecord) error
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]ConsumptionRecord, error)
	FindByBatchAndMaterial(ctx context.Context, batchID, materialID uuid.UUID) ([]ConsumptionRecord, error)
}
