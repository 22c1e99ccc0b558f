package manufacturing

import (
	"context"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/manufacturing"
	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service orchestrates production planning: BOM expansion into material
// requirements, batch management and the consumption variance trail.
type Service struct {
	orderRepo       order.Repository
	bomRepo         manufacturing.BOMRepository
	batchRepo       manufacturing.BatchRepository
	consumptionRepo manufacturing.ConsumptionRecordRepository
}

// NewService creates a new manufacturing Service
func NewService(orderRepo order.Repository, bomRepo manufacturing.BOMRepository, batchRepo manufacturing.BatchRepository, consumptionRepo manufacturing.ConsumptionRecordRepository) *Service {
	return &Service{
		orderRepo:       orderRepo,
		bomRepo:         bomRepo,
		batchRepo:       batchRepo,
		consumptionRepo: consumptionRepo,
	}
}

// MaterialRequirements expands the production order's BOM into concrete
// material requirements for its current target quantity. Recomputed on
// every call so edits to the target quantity are always reflected.
func (s *Service) MaterialRequirements(ctx context.Context, orgID, orderID uuid.UUID) (*RequirementsResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Kind != order.KindProduction || o.BOMID == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Material requirements apply to production orders only")
	}

	bom, err := s.bomRepo.FindByID(ctx, orgID, *o.BOMID)
	if err != nil {
		return nil, err
	}

	reqs, err := manufacturing.Expand(bom, o.TargetQuantity)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i := range reqs {
		total = total.Add(reqs[i].EstimatedCost)
	}

	return &RequirementsResponse{
		OrderID:            o.ID,
		BOMID:              bom.ID,
		TargetQuantity:     o.TargetQuantity,
		Requirements:       ToRequirementResponses(reqs),
		TotalEstimatedCost: total,
	}, nil
}

// CostAnalysis computes the wastage-adjusted material cost of a BOM
func (s *Service) CostAnalysis(ctx context.Context, orgID, bomID uuid.UUID) (*CostAnalysisResponse, error) {
	bom, err := s.bomRepo.FindByID(ctx, orgID, bomID)
	if err != nil {
		return nil, err
	}

	analysis, err := manufacturing.AnalyzeCost(bom)
	if err != nil {
		return nil, err
	}

	return &CostAnalysisResponse{
		BOMID:             bom.ID,
		OutputQuantity:    bom.OutputQuantity,
		TotalMaterialCost: analysis.TotalMaterialCost,
		CostPerUnit:       analysis.CostPerUnit,
	}, nil
}

// CreateBatch starts a new production batch against a dispatched
// production order
func (s *Service) CreateBatch(ctx context.Context, orgID, orderID, actorID uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Kind != order.KindProduction {
		return nil, shared.NewDomainError("INVALID_STATE", "Batches apply to production orders only")
	}
	if !o.Status.CanFulfill() {
		return nil, shared.NewDomainError("INVALID_STATE", "Batches can only be created once production has started")
	}

	existing, err := s.batchRepo.FindByOrder(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	batchNumber := fmt.Sprintf("%s-B%03d", o.OrderNumber, len(existing)+1)

	batch, err := manufacturing.NewProductionBatch(orgID, orderID, batchNumber, req.Unit, req.Quantity, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// ListBatches returns the batches of a production order
func (s *Service) ListBatches(ctx context.Context, orgID, orderID uuid.UUID) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindByOrder(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		out = append(out, ToBatchResponse(&batches[i]))
	}
	return out, nil
}

// RecordConsumption appends a consumption record for a batch. The planned
// quantity defaults to the BOM's wastage-adjusted requirement for the
// material scaled to the batch quantity; repeated discharges append
// records rather than mutating earlier ones.
func (s *Service) RecordConsumption(ctx context.Context, orgID, batchID, actorID uuid.UUID, req RecordConsumptionRequest) (*ConsumptionRecordResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "manufacturing", "record_consumption",
		telemetry.WithAttribute(telemetry.SpanAttrBatchID, batchID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrMaterialID, req.MaterialID.String()))
	defer span.End()

	batch, err := s.batchRepo.FindByID(ctx, orgID, batchID)
	if err != nil {
		return nil, err
	}

	planned, unit, err := s.resolvePlanned(ctx, orgID, batch, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	record, err := manufacturing.Analyze(orgID, batch.ID, req.MaterialID, unit, planned, req.ActualQuantity, actorID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	record.Remarks = req.Remarks

	if err := s.consumptionRepo.Append(ctx, record); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrSeverity, string(record.Severity()))

	resp := ToConsumptionRecordResponse(record)
	return &resp, nil
}

// Variance returns the consumption variance report of a batch
func (s *Service) Variance(ctx context.Context, orgID, batchID uuid.UUID) (*VarianceReportResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, orgID, batchID)
	if err != nil {
		return nil, err
	}

	records, err := s.consumptionRepo.FindByBatch(ctx, batch.ID)
	if err != nil {
		return nil, err
	}

	out := make([]ConsumptionRecordResponse, 0, len(records))
	worst := manufacturing.SeverityNormal
	for i := range records {
		r := ToConsumptionRecordResponse(&records[i])
		out = append(out, r)
		worst = worseOf(worst, records[i].Severity())
	}

	return &VarianceReportResponse{
		BatchID:       batch.ID,
		Records:       out,
		WorstSeverity: string(worst),
	}, nil
}

// resolvePlanned derives the planned quantity for a consumption record:
// the request override wins, otherwise the BOM requirement for the
// material scaled to the batch quantity.
func (s *Service) resolvePlanned(ctx context.Context, orgID uuid.UUID, batch *manufacturing.ProductionBatch, req RecordConsumptionRequest) (decimal.Decimal, string, error) {
	if req.PlannedQuantity != nil {
		unit, err := s.materialUnit(ctx, orgID, batch, req.MaterialID)
		if err != nil {
			return decimal.Zero, "", err
		}
		return *req.PlannedQuantity, unit, nil
	}

	o, err := s.orderRepo.FindByID(ctx, orgID, batch.OrderID)
	if err != nil {
		return decimal.Zero, "", err
	}
	if o.BOMID == nil {
		return decimal.Zero, "", shared.NewValidationError("planned_quantity", "Planned quantity is required when the order has no BOM")
	}

	bom, err := s.bomRepo.FindByID(ctx, orgID, *o.BOMID)
	if err != nil {
		return decimal.Zero, "", err
	}
	reqs, err := manufacturing.Expand(bom, batch.Quantity)
	if err != nil {
		return decimal.Zero, "", err
	}
	for i := range reqs {
		if reqs[i].MaterialID == req.MaterialID {
			return reqs[i].EffectiveQuantity, reqs[i].Unit, nil
		}
	}
	return decimal.Zero, "", shared.NewDomainError("NOT_FOUND", "Material is not part of the order's BOM")
}

// materialUnit resolves the unit of measure for a consumed material from the
// order's BOM. Ad-hoc consumption of a material outside the BOM, or on an
// order without one, falls back to the batch unit.
func (s *Service) materialUnit(ctx context.Context, orgID uuid.UUID, batch *manufacturing.ProductionBatch, materialID uuid.UUID) (string, error) {
	o, err := s.orderRepo.FindByID(ctx, orgID, batch.OrderID)
	if err != nil {
		return "", err
	}
	if o.BOMID == nil {
		return batch.Unit, nil
	}
	bom, err := s.bomRepo.FindByID(ctx, orgID, *o.BOMID)
	if err != nil {
		return "", err
	}
	for i := range bom.Components {
		if bom.Components[i].MaterialID == materialID {
			return bom.Components[i].Unit, nil
		}
	}
	return batch.Unit, nil
}

func worseOf(a, b manufacturing.VarianceSeverity) manufacturing.VarianceSeverity {
	rank := map[manufacturing.VarianceSeverity]int{
		manufacturing.SeverityNormal:   0,
		manufacturing.SeverityWarning:  1,
		manufacturing.SeverityCritical: 2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
