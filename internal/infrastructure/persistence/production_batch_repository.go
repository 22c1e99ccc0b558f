package persistence

import (
	"context"
	"errors"

	"github.com/erp/fulfillment/internal/domain/manufacturing"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBatchRepository implements manufacturing.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a production batch by ID within an organization
func (r *GormBatchRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*manufacturing.ProductionBatch, error) {
	var model models.ProductionBatchModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrder returns the batches of an order, oldest first
func (r *GormBatchRepository) FindByOrder(ctx context.Context, orgID, orderID uuid.UUID) ([]manufacturing.ProductionBatch, error) {
	var batchModels []models.ProductionBatchModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND order_id = ?", orgID, orderID).
		Order("created_at ASC").
		Find(&batchModels).Error; err != nil {
		return nil, err
	}
	batches := make([]manufacturing.ProductionBatch, len(batchModels))
	for i := range batchModels {
		batches[i] = *batchModels[i].ToDomain()
	}
	return batches, nil
}

// Save persists a production batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *manufacturing.ProductionBatch) error {
	model := models.ProductionBatchModelFromDomain(batch)
	return r.db.WithContext(ctx).Save(model).Error
}
