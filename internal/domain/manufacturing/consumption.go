package manufacturing

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VarianceSeverity classifies a consumption variance for downstream
// alerting. It is derived from the variance percentage and never stored.
type VarianceSeverity string

const (
	SeverityNormal   VarianceSeverity = "NORMAL"
	SeverityWarning  VarianceSeverity = "WARNING"
	SeverityCritical VarianceSeverity = "CRITICAL"
)

var (
	warningThreshold  = decimal.NewFromInt(5)
	criticalThreshold = decimal.NewFromInt(10)
)

// ClassifySeverity buckets an absolute variance percentage:
// <=5% normal, <=10% warning, >10% critical.
func ClassifySeverity(variancePct decimal.Decimal) VarianceSeverity {
	abs := variancePct.Abs()
	switch {
	case abs.LessThanOrEqual(warningThreshold):
		return SeverityNormal
	case abs.LessThanOrEqual(criticalThreshold):
		return SeverityWarning
	default:
		return SeverityCritical
	}
}

// ConsumptionRecord compares planned against actual material consumption
// for one batch/material pair. Records are immutable once written:
// corrections and repeated discharges append new records, preserving the
// audit trail.
type ConsumptionRecord struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrganizationID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	PlannedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ActualQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Variance        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VariancePct     decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	RecordedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	RecordedAt      time.Time       `gorm:"not null"`
	Remarks         string          `gorm:"type:varchar(500)"`
}

// Severity classifies this record's variance
func (r *ConsumptionRecord) Severity() VarianceSeverity {
	return ClassifySeverity(r.VariancePct)
}

// Analyze builds a consumption record from planned and actual quantities:
// variance = actual - planned, percentage relative to planned (0 when
// planned is 0).
func Analyze(orgID, batchID, materialID uuid.UUID, unit string, planned, actual decimal.Decimal, actorID uuid.UUID) (*ConsumptionRecord, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewValidationError("batch_id", "Batch ID cannot be empty")
	}
	if materialID == uuid.Nil {
		return nil, shared.NewValidationError("material_id", "Material ID cannot be empty")
	}
	if planned.IsNegative() {
		return nil, shared.NewValidationError("planned_quantity", "Planned quantity cannot be negative")
	}
	if actual.IsNegative() {
		return nil, shared.NewValidationError("actual_quantity", "Actual quantity cannot be negative")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewValidationError("actor_id", "Actor ID cannot be empty")
	}

	variance := actual.Sub(planned)
	pct := decimal.Zero
	if planned.IsPositive() {
		pct = variance.Div(planned).Mul(decimal.NewFromInt(100))
	}

	return &ConsumptionRecord{
		ID:              uuid.New(),
		OrganizationID:  orgID,
		BatchID:         batchID,
		MaterialID:      materialID,
		Unit:            unit,
		PlannedQuantity: planned,
		ActualQuantity:  actual,
		Variance:        variance,
		VariancePct:     pct,
		RecordedBy:      actorID,
		RecordedAt:      time.Now(),
	}, nil
}
