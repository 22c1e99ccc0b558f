package manufacturing

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMStatus represents the catalog status of a bill of materials
type BOMStatus string

const (
	BOMStatusDraft      BOMStatus = "DRAFT"
	BOMStatusActive     BOMStatus = "ACTIVE"
	BOMStatusInactive   BOMStatus = "INACTIVE"
	BOMStatusSuperseded BOMStatus = "SUPERSEDED"
)

// Component is one template entry of a bill of materials: how much of a raw
// material goes into one unit of the finished product. Components are
// reference data owned by the product catalog and read-only to the engine.
type Component struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	BOMID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID    uuid.UUID       `gorm:"type:uuid;not null"`
	MaterialName  string          `gorm:"type:varchar(200);not null"`
	MaterialCode  string          `gorm:"type:varchar(50);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // per unit of finished good
	Unit          string          `gorm:"type:varchar(20);not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	WastagePct    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	Sequence      int             `gorm:"not null;default:0"`
}

// EffectiveQuantity returns the per-unit quantity adjusted for wastage:
// quantity x (1 + wastage_pct/100)
func (c *Component) EffectiveQuantity() decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(c.WastagePct.Div(decimal.NewFromInt(100)))
	return c.Quantity.Mul(factor)
}

// BillOfMaterials maps a finished product to the raw materials required per
// output unit. Read-only to the engine; only the catalog mutates it.
type BillOfMaterials struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	BOMNumber      string          `gorm:"type:varchar(50);not null"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	OutputQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	Status         BOMStatus       `gorm:"type:varchar(20);not null"`
	Components     []Component     `gorm:"foreignKey:BOMID;references:ID"`
	EffectiveDate  time.Time       `gorm:"not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// MaterialRequirement is derived, never persisted independently:
// required_quantity = component.quantity x targetQuantity, recomputed
// whenever the target quantity changes.
type MaterialRequirement struct {
	MaterialID        uuid.UUID       `json:"material_id"`
	MaterialName      string          `json:"material_name"`
	MaterialCode      string          `json:"material_code"`
	Unit              string          `json:"unit"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	EffectiveQuantity decimal.Decimal `json:"effective_quantity"` // wastage-adjusted
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
}

// Expand expands the BOM into concrete material requirements for the given
// target production quantity. Pure function: safe to call repeatedly while
// the target quantity is being edited on a draft order.
func Expand(bom *BillOfMaterials, targetQuantity decimal.Decimal) ([]MaterialRequirement, error) {
	if bom == nil {
		return nil, shared.NewValidationError("bom", "BOM cannot be nil")
	}
	if targetQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("target_quantity", "Target quantity must be positive")
	}

	requirements := make([]MaterialRequirement, 0, len(bom.Components))
	for i := range bom.Components {
		c := &bom.Components[i]
		required := c.Quantity.Mul(targetQuantity)
		effective := c.EffectiveQuantity().Mul(targetQuantity)
		requirements = append(requirements, MaterialRequirement{
			MaterialID:        c.MaterialID,
			MaterialName:      c.MaterialName,
			MaterialCode:      c.MaterialCode,
			Unit:              c.Unit,
			RequiredQuantity:  required,
			EffectiveQuantity: effective,
			UnitCost:          c.UnitCost,
			EstimatedCost:     effective.Mul(c.UnitCost),
		})
	}
	return requirements, nil
}

// CostAnalysis summarizes the material cost of producing one BOM output run
type CostAnalysis struct {
	TotalMaterialCost decimal.Decimal `json:"total_material_cost"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit"`
}

// AnalyzeCost computes the wastage-adjusted material cost of the BOM and
// the cost per output unit
func AnalyzeCost(bom *BillOfMaterials) (CostAnalysis, error) {
	if bom == nil {
		return CostAnalysis{}, shared.NewValidationError("bom", "BOM cannot be nil")
	}

	total := decimal.Zero
	for i := range bom.Components {
		c := &bom.Components[i]
		total = total.Add(c.EffectiveQuantity().Mul(c.UnitCost))
	}

	perUnit := decimal.Zero
	if bom.OutputQuantity.IsPositive() {
		perUnit = total.Div(bom.OutputQuantity)
	}
	return CostAnalysis{TotalMaterialCost: total, CostPerUnit: perUnit}, nil
}
