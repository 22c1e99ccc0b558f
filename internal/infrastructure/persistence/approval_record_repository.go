package persistence

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormApprovalRecordRepository implements order.ApprovalRecordRepository
// using GORM. The trail is append-only: inserts and reads, nothing else.
type GormApprovalRecordRepository struct {
	db *gorm.DB
}

// NewGormApprovalRecordRepository creates a new GormApprovalRecordRepository
func NewGormApprovalRecordRepository(db *gorm.DB) *GormApprovalRecordRepository {
	return &GormApprovalRecordRepository{db: db}
}

// Append inserts a new approval record
func (r *GormApprovalRecordRepository) Append(ctx context.Context, record *order.ApprovalRecord) error {
	model := models.ApprovalRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByOrder returns the approval records of an order, oldest first
func (r *GormApprovalRecordRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]order.ApprovalRecord, error) {
	var recordModels []models.ApprovalRecordModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("decided_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]order.ApprovalRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records, nil
}
