package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderNumberPrefix maps the order kind to its numbering prefix
func orderNumberPrefix(kind order.Kind) string {
	if kind == order.KindProduction {
		return "MO"
	}
	return "PO"
}

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID within an organization
func (r *GormOrderRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by order number within an organization
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("organization_id = ? AND order_number = ?", orgID, orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds orders for an organization with filtering and pagination
func (r *GormOrderRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orderModels []models.OrderModel

	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("organization_id = ?", orgID)
	query = r.applyFilter(query, filter)

	if err := query.Preload("Lines").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]order.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders for an organization matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("organization_id = ?", orgID)
	query = r.applyConditions(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a new order aggregate with its lines
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.db.WithContext(ctx).Create(model).Error
}

// SaveWithLock persists an existing order with an optimistic concurrency
// check on the version column. The version held by the aggregate must match
// the stored one; a mismatch means another writer got there first.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct {
			Version int
		}
		if err := tx.Model(&models.OrderModel{}).
			Where("id = ?", o.ID).
			Select("version").
			Take(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if current.Version != o.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		o.Version++
		o.UpdatedAt = time.Now()
		model := models.OrderModelFromDomain(o)

		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", o.ID, current.Version).
			Updates(map[string]interface{}{
				"status":          model.Status,
				"supplier_id":     model.SupplierID,
				"supplier_name":   model.SupplierName,
				"payment_terms":   model.PaymentTerms,
				"delivery_terms":  model.DeliveryTerms,
				"target_quantity": model.TargetQuantity,
				"priority":        model.Priority,
				"tax_rate":        model.TaxRate,
				"shipping_amount": model.ShippingAmount,
				"subtotal":        model.Subtotal,
				"tax_amount":      model.TaxAmount,
				"discount_amount": model.DiscountAmount,
				"grand_total":     model.GrandTotal,
				"submitted_at":    model.SubmittedAt,
				"approved_at":     model.ApprovedAt,
				"approved_by":     model.ApprovedBy,
				"dispatched_at":   model.DispatchedAt,
				"completed_at":    model.CompletedAt,
				"cancelled_at":    model.CancelledAt,
				"cancel_reason":   model.CancelReason,
				"remark":          model.Remark,
				"version":         model.Version,
				"updated_at":      model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		// Reconcile lines: delete removed ones, upsert the rest.
		currentLineIDs := make([]uuid.UUID, len(o.Lines))
		for i := range o.Lines {
			currentLineIDs[i] = o.Lines[i].ID
		}
		if len(currentLineIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", o.ID, currentLineIDs).
				Delete(&models.OrderLineModel{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", o.ID).
				Delete(&models.OrderLineModel{}).Error; err != nil {
				return err
			}
		}
		for i := range o.Lines {
			o.Lines[i].OrderID = o.ID
			lineModel := models.OrderLineModelFromDomain(&o.Lines[i], o.Currency)
			if err := tx.Save(lineModel).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete soft-deletes a draft order
func (r *GormOrderRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.OrderModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByOrderNumber checks whether an order number is already taken
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("organization_id = ? AND order_number = ?", orgID, orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderNumber generates the next sequential order number for the
// kind, in the form PO-YYYY-NNNNN or MO-YYYY-NNNNN
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, orgID uuid.UUID, kind order.Kind) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", orderNumberPrefix(kind), year)

	var lastOrder models.OrderModel
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("organization_id = ? AND order_number LIKE ?", orgID, prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	orderNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByOrderNumber(ctx, orgID, orderNumber)
	if err != nil {
		return "", err
	}
	for i := 0; exists && i < 100; i++ {
		nextNum++
		orderNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
		exists, err = r.ExistsByOrderNumber(ctx, orgID, orderNumber)
		if err != nil {
			return "", err
		}
	}

	return orderNumber, nil
}

// applyFilter applies conditions, sorting and pagination to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyConditions applies search and field filters without pagination,
// shared between listing and counting
func (r *GormOrderRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
	}
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	if startDate, ok := filter.Filters["start_date"]; ok {
		query = query.Where("created_at >= ?", startDate)
	}
	if endDate, ok := filter.Filters["end_date"]; ok {
		query = query.Where("created_at <= ?", endDate)
	}
	return query
}
