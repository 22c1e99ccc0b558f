package persistence

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/manufacturing"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConsumptionRecordRepository implements
// manufacturing.ConsumptionRecordRepository using GORM. Append-only.
type GormConsumptionRecordRepository struct {
	db *gorm.DB
}

// NewGormConsumptionRecordRepository creates a new GormConsumptionRecordRepository
func NewGormConsumptionRecordRepository(db *gorm.DB) *GormConsumptionRecordRepository {
	return &GormConsumptionRecordRepository{db: db}
}

// Append inserts a new consumption record
func (r *GormConsumptionRecordRepository) Append(ctx context.Context, record *manufacturing.ConsumptionRecord) error {
	model := models.ConsumptionRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByBatch returns the consumption records of a batch, oldest first
func (r *GormConsumptionRecordRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]manufacturing.ConsumptionRecord, error) {
	var recordModels []models.ConsumptionRecordModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("recorded_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDomainConsumptionRecords(recordModels), nil
}

// FindByBatchAndMaterial returns the records of one batch/material pair
func (r *GormConsumptionRecordRepository) FindByBatchAndMaterial(ctx context.Context, batchID, materialID uuid.UUID) ([]manufacturing.ConsumptionRecord, error) {
	var recordModels []models.ConsumptionRecordModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ? AND material_id = ?", batchID, materialID).
		Order("recorded_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDomainConsumptionRecords(recordModels), nil
}

func toDomainConsumptionRecords(recordModels []models.ConsumptionRecordModel) []manufacturing.ConsumptionRecord {
	records := make([]manufacturing.ConsumptionRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records
}
