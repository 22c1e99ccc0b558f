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

// GormBOMRepository implements manufacturing.BOMRepository using GORM.
// Read-only: the catalog owns BOM writes.
type GormBOMRepository struct {
	db *gorm.DB
}

// NewGormBOMRepository creates a new GormBOMRepository
func NewGormBOMRepository(db *gorm.DB) *GormBOMRepository {
	return &GormBOMRepository{db: db}
}

// FindByID finds a BOM with its components by ID within an organization
func (r *GormBOMRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*manufacturing.BillOfMaterials, error) {
	var model models.BOMModel
	if err := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByProduct finds the newest active BOM for a product
func (r *GormBOMRepository) FindActiveByProduct(ctx context.Context, orgID, productID uuid.UUID) (*manufacturing.BillOfMaterials, error) {
	var model models.BOMModel
	if err := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("organization_id = ? AND product_id = ? AND status = ?", orgID, productID, manufacturing.BOMStatusActive).
		Order("effective_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
