package manufacturing

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/manufacturing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// CreateBatchRequest starts a new production batch against an order
type CreateBatchRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Unit     string          `json:"unit" binding:"required,min=1,max=20"`
}

// RecordConsumptionRequest records actual material consumption for a batch.
// The planned quantity is derived from the order's BOM expansion scaled to
// the batch quantity; callers may override it for ad-hoc discharges.
type RecordConsumptionRequest struct {
	MaterialID      uuid.UUID        `json:"material_id" binding:"required"`
	ActualQuantity  decimal.Decimal  `json:"actual_quantity" binding:"required"`
	PlannedQuantity *decimal.Decimal `json:"planned_quantity"`
	Remarks         string           `json:"remarks" binding:"omitempty,max=500"`
}

// ==================== Response DTOs ====================

// MaterialRequirementResponse is one expanded BOM line for a target quantity
type MaterialRequirementResponse struct {
	MaterialID        uuid.UUID       `json:"material_id"`
	MaterialName      string          `json:"material_name"`
	MaterialCode      string          `json:"material_code"`
	Unit              string          `json:"unit"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	EffectiveQuantity decimal.Decimal `json:"effective_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
}

// RequirementsResponse is the full expansion result for a production order
type RequirementsResponse struct {
	OrderID           uuid.UUID                     `json:"order_id"`
	BOMID             uuid.UUID                     `json:"bom_id"`
	TargetQuantity    decimal.Decimal               `json:"target_quantity"`
	Requirements      []MaterialRequirementResponse `json:"requirements"`
	TotalEstimatedCost decimal.Decimal              `json:"total_estimated_cost"`
}

// BatchResponse represents a production batch in API responses
type BatchResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ConsumptionRecordResponse is one consumption trail entry with its
// derived variance classification
type ConsumptionRecordResponse struct {
	ID              uuid.UUID       `json:"id"`
	BatchID         uuid.UUID       `json:"batch_id"`
	MaterialID      uuid.UUID       `json:"material_id"`
	Unit            string          `json:"unit"`
	PlannedQuantity decimal.Decimal `json:"planned_quantity"`
	ActualQuantity  decimal.Decimal `json:"actual_quantity"`
	Variance        decimal.Decimal `json:"variance"`
	VariancePct     decimal.Decimal `json:"variance_pct"`
	Severity        string          `json:"severity"`
	RecordedBy      uuid.UUID       `json:"recorded_by"`
	RecordedAt      time.Time       `json:"recorded_at"`
	Remarks         string          `json:"remarks,omitempty"`
}

// VarianceReportResponse summarizes consumption variance for a batch
type VarianceReportResponse struct {
	BatchID       uuid.UUID                   `json:"batch_id"`
	Records       []ConsumptionRecordResponse `json:"records"`
	WorstSeverity string                      `json:"worst_severity"`
}

// CostAnalysisResponse is the wastage-adjusted material cost of a BOM
type CostAnalysisResponse struct {
	BOMID             uuid.UUID       `json:"bom_id"`
	OutputQuantity    decimal.Decimal `json:"output_quantity"`
	TotalMaterialCost decimal.Decimal `json:"total_material_cost"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit"`
}

// ==================== Converters ====================

// ToBatchResponse converts a domain batch to its response DTO
func ToBatchResponse(b *manufacturing.ProductionBatch) BatchResponse {
	return BatchResponse{
		ID:          b.ID,
		OrderID:     b.OrderID,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		Unit:        b.Unit,
		StartedAt:   b.StartedAt,
		CompletedAt: b.CompletedAt,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt,
	}
}

// ToConsumptionRecordResponse converts a domain record to its response DTO
func ToConsumptionRecordResponse(r *manufacturing.ConsumptionRecord) ConsumptionRecordResponse {
	return ConsumptionRecordResponse{
		ID:              r.ID,
		BatchID:         r.BatchID,
		MaterialID:      r.MaterialID,
		Unit:            r.Unit,
		PlannedQuantity: r.PlannedQuantity,
		ActualQuantity:  r.ActualQuantity,
		Variance:        r.Variance,
		VariancePct:     r.VariancePct,
		Severity:        string(r.Severity()),
		RecordedBy:      r.RecordedBy,
		RecordedAt:      r.RecordedAt,
		Remarks:         r.Remarks,
	}
}

// ToRequirementResponses converts expanded requirements to response DTOs
func ToRequirementResponses(reqs []manufacturing.MaterialRequirement) []MaterialRequirementResponse {
	out := make([]MaterialRequirementResponse, 0, len(reqs))
	for i := range reqs {
		r := &reqs[i]
		out = append(out, MaterialRequirementResponse{
			MaterialID:        r.MaterialID,
			MaterialName:      r.MaterialName,
			MaterialCode:      r.MaterialCode,
			Unit:              r.Unit,
			RequiredQuantity:  r.RequiredQuantity,
			EffectiveQuantity: r.EffectiveQuantity,
			UnitCost:          r.UnitCost,
			EstimatedCost:     r.EstimatedCost,
		})
	}
	return out
}
