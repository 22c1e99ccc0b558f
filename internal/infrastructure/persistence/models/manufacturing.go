package models

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/manufacturing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMModel is the persistence model for the BillOfMaterials reference data.
// The engine reads BOMs; writes belong to the product catalog.
type BOMModel struct {
	ID             uuid.UUID                `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID                `gorm:"type:uuid;not null;index"`
	BOMNumber      string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_bom_org_number,priority:2"`
	ProductID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	OutputQuantity decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:1"`
	Status         manufacturing.BOMStatus  `gorm:"type:varchar(20);not null;index"`
	Components     []BOMComponentModel      `gorm:"foreignKey:BOMID;references:ID"`
	EffectiveDate  time.Time                `gorm:"not null"`
	CreatedAt      time.Time                `gorm:"not null"`
	UpdatedAt      time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BOMModel) TableName() string {
	return "bills_of_materials"
}

// ToDomain converts the persistence model to a domain BillOfMaterials.
func (m *BOMModel) ToDomain() *manufacturing.BillOfMaterials {
	bom := &manufacturing.BillOfMaterials{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		BOMNumber:      m.BOMNumber,
		ProductID:      m.ProductID,
		OutputQuantity: m.OutputQuantity,
		Status:         m.Status,
		EffectiveDate:  m.EffectiveDate,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		Components:     make([]manufacturing.Component, len(m.Components)),
	}
	for i, c := range m.Components {
		bom.Components[i] = *c.ToDomain()
	}
	return bom
}

// BOMComponentModel is the persistence model for one BOM component entry.
type BOMComponentModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	BOMID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID   uuid.UUID       `gorm:"type:uuid;not null"`
	MaterialName string          `gorm:"type:varchar(200);not null"`
	MaterialCode string          `gorm:"type:varchar(50);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	WastagePct   decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	Sequence     int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BOMComponentModel) TableName() string {
	return "bom_components"
}

// ToDomain converts the persistence model to a domain Component.
func (m *BOMComponentModel) ToDomain() *manufacturing.Component {
	return &manufacturing.Component{
		ID:           m.ID,
		BOMID:        m.BOMID,
		MaterialID:   m.MaterialID,
		MaterialName: m.MaterialName,
		MaterialCode: m.MaterialCode,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		UnitCost:     m.UnitCost,
		WastagePct:   m.WastagePct,
		Sequence:     m.Sequence,
	}
}

// ProductionBatchModel is the persistence model for production batches.
type ProductionBatchModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_batch_org_number,priority:2"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductionBatchModel) TableName() string {
	return "production_batches"
}

// ToDomain converts the persistence model to a domain ProductionBatch.
func (m *ProductionBatchModel) ToDomain() *manufacturing.ProductionBatch {
	return &manufacturing.ProductionBatch{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		OrderID:        m.OrderID,
		BatchNumber:    m.BatchNumber,
		Quantity:       m.Quantity,
		Unit:           m.Unit,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ProductionBatchModelFromDomain creates a persistence model from a domain batch.
func ProductionBatchModelFromDomain(b *manufacturing.ProductionBatch) *ProductionBatchModel {
	return &ProductionBatchModel{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		OrderID:        b.OrderID,
		BatchNumber:    b.BatchNumber,
		Quantity:       b.Quantity,
		Unit:           b.Unit,
		StartedAt:      b.StartedAt,
		CompletedAt:    b.CompletedAt,
		CreatedBy:      b.CreatedBy,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// ConsumptionRecordModel is the persistence model for the append-only
// consumption trail. Rows are inserted and read, never updated or deleted.
type ConsumptionRecordModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrganizationID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Unit            string          `gorm:"type:varchar(20)"`
	PlannedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ActualQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Variance        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VariancePct     decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	RecordedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	RecordedAt      time.Time       `gorm:"not null;index"`
	Remarks         string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ConsumptionRecordModel) TableName() string {
	return "consumption_records"
}

// ToDomain converts the persistence model to a domain ConsumptionRecord.
func (m *ConsumptionRecordModel) ToDomain() *manufacturing.ConsumptionRecord {
	return &manufacturing.ConsumptionRecord{
		ID:              m.ID,
		OrganizationID:  m.OrganizationID,
		BatchID:         m.BatchID,
		MaterialID:      m.MaterialID,
		Unit:            m.Unit,
		PlannedQuantity: m.PlannedQuantity,
		ActualQuantity:  m.ActualQuantity,
		Variance:        m.Variance,
		VariancePct:     m.VariancePct,
		RecordedBy:      m.RecordedBy,
		RecordedAt:      m.RecordedAt,
		Remarks:         m.Remarks,
	}
}

// ConsumptionRecordModelFromDomain creates a persistence model from a domain record.
func ConsumptionRecordModelFromDomain(r *manufacturing.ConsumptionRecord) *ConsumptionRecordModel {
	return &ConsumptionRecordModel{
		ID:              r.ID,
		OrganizationID:  r.OrganizationID,
		BatchID:         r.BatchID,
		MaterialID:      r.MaterialID,
		Unit:            r.Unit,
		PlannedQuantity: r.PlannedQuantity,
		ActualQuantity:  r.ActualQuantity,
		Variance:        r.Variance,
		VariancePct:     r.VariancePct,
		RecordedBy:      r.RecordedBy,
		RecordedAt:      r.RecordedAt,
		Remarks:         r.Remarks,
	}
}
