package pricing

import (
	"context"
	"errors"
	"math"
	"time"

	"lab-cost-estimator/metrics"
	"lab-cost-estimator/models"
	"lab-cost-estimator/repository"
	"lab-cost-estimator/utils"
)

// SnapshotReader runs fn against a consistent view of experiments and catalog
type SnapshotReader interface {
	Read(fn func(repository.ExperimentReader, repository.CatalogReader) error) error
}

// Engine computes cost reports over the live stores
type Engine struct {
	stores SnapshotReader
}

// NewEngine creates a new pricing engine instance
func NewEngine(stores SnapshotReader) *Engine {
	return &Engine{stores: stores}
}

// Calculate computes the cost report for a selection while holding read
// locks on both stores, so no mutation interleaves with the computation
func (e *Engine) Calculate(ctx context.Context, req models.CalculateRequest) (*models.CostReport, error) {
	report, _, err := e.calculate(ctx, req, false)
	return report, err
}

// CalculateWithViews also renders the selected experiments, in selection
// order, from the same snapshot the report was computed on
func (e *Engine) CalculateWithViews(ctx context.Context, req models.CalculateRequest) (*models.CostReport, []models.ExperimentView, error) {
	return e.calculate(ctx, req, true)
}

func (e *Engine) calculate(ctx context.Context, req models.CalculateRequest, withViews bool) (*models.CostReport, []models.ExperimentView, error) {
	start := time.Now()
	var report *models.CostReport
	var views []models.ExperimentView
	err := e.stores.Read(func(exps repository.ExperimentReader, cat repository.CatalogReader) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		if report, err = Compute(exps, cat, req); err != nil {
			return err
		}
		if withViews {
			views = make([]models.ExperimentView, 0, len(req.ExperimentIDs))
			for _, id := range req.ExperimentIDs {
				exp, _ := exps.Get(id)
				views = append(views, repository.BuildView(exp, cat))
			}
		}
		return nil
	})
	metrics.PricingCalculationDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.PricingCalculationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		metrics.PricingReportItems.WithLabelValues(string(models.UsageCommon)).Observe(float64(len(report.CommonItems)))
		metrics.PricingReportItems.WithLabelValues(string(models.UsageUnique)).Observe(float64(len(report.UniqueItems)))
		utils.Log.Infof("💰 Calculate: %d experiments, %d common, %d unique, total=%.2f",
			report.SelectedCount, len(report.CommonItems), len(report.UniqueItems), report.TotalCost)
	case errors.Is(err, models.ErrValidation):
		metrics.PricingCalculationsTotal.WithLabelValues(metrics.OutcomeValidation).Inc()
		utils.Log.Warnf("⚠️  Calculate: %v", err)
	case errors.Is(err, models.ErrNotFound):
		metrics.PricingCalculationsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		utils.Log.Warnf("⚠️  Calculate: %v", err)
	default:
		metrics.PricingCalculationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		utils.Log.Errorf("❌ Calculate: %v", err)
	}
	if err != nil {
		return nil, nil, err
	}
	return report, views, nil
}

// usageRecord accumulates one item's demand across the selection
type usageRecord struct {
	item  models.Item
	usage []models.ExperimentUsage
}

// Compute merges item usage across the selected experiments and prices it.
//
// Equipment (non_consumable) is provisioned once at the largest single
// demand; everything else is summed over quantity*trials. A quantity
// override only applies to items billed as common and can only raise the
// quantity. An item lands in CommonItems only when it is billed as common
// and actually used by more than one selected experiment.
func Compute(exps repository.ExperimentReader, cat repository.CatalogReader, req models.CalculateRequest) (*models.CostReport, error) {
	if len(req.ExperimentIDs) == 0 {
		return nil, models.ValidationError("No experiments selected")
	}
	selected := make([]models.Experiment, 0, len(req.ExperimentIDs))
	for _, id := range req.ExperimentIDs {
		exp, ok := exps.Get(id)
		if !ok {
			return nil, models.NotFoundError("Experiment %s not found", id)
		}
		selected = append(selected, exp)
	}
	for itemID, usage := range req.ItemUsageType {
		if !usage.Valid() {
			return nil, models.ValidationError("Invalid usage type %q for item %s", usage, itemID)
		}
	}

	// merge in discovery order
	records := make(map[string]*usageRecord)
	var order []string
	for _, exp := range selected {
		trials := exp.EffectiveTrials()
		for _, ref := range exp.Items {
			rec, ok := records[ref.ItemID]
			if !ok {
				item, found := cat.GetItem(ref.ItemID)
				if !found {
					continue
				}
				item.Category = item.Category.OrDefault()
				rec = &usageRecord{item: item}
				records[ref.ItemID] = rec
				order = append(order, ref.ItemID)
			}
			rec.usage = append(rec.usage, models.ExperimentUsage{
				ExpID:    exp.ID,
				ExpName:  exp.Name,
				Quantity: ref.Quantity,
				Trials:   trials,
			})
		}
	}

	report := &models.CostReport{
		CommonItems:   []models.ItemUsageResult{},
		UniqueItems:   []models.ItemUsageResult{},
		SelectedCount: len(selected),
	}
	var total float64
	for _, itemID := range order {
		rec := records[itemID]
		multi := len(rec.usage) > 1

		usageType := models.UsageUnique
		if multi {
			usageType = models.UsageCommon
		}
		if override, ok := req.ItemUsageType[itemID]; ok {
			usageType = override
		}

		required := requiredQuantity(rec.item.Category, rec.usage)
		quantity := required
		if usageType == models.UsageCommon {
			if floor, ok := req.ItemCustomQuantity[itemID]; ok && floor.Float() > required {
				quantity = floor.Float()
			}
		}

		cost := quantity * rec.item.PricePerUnit
		if !isFinite(cost) {
			return nil, models.ValidationError("Cost of item %s is out of range", itemID)
		}
		total += cost

		result := models.ItemUsageResult{
			ID:               itemID,
			Name:             rec.item.Name,
			Price:            rec.item.PricePerUnit,
			Category:         rec.item.Category,
			Unit:             rec.item.Unit,
			Experiments:      rec.usage,
			TotalQuantity:    quantity,
			RequiredQuantity: required,
			TotalCost:        cost,
			UsageType:        usageType,
		}
		if usageType == models.UsageCommon && multi {
			report.CommonItems = append(report.CommonItems, result)
		} else {
			report.UniqueItems = append(report.UniqueItems, result)
		}
	}
	if !isFinite(total) {
		return nil, models.ValidationError("Total cost is out of range")
	}
	report.TotalCost = utils.RoundMoney(total)
	return report, nil
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func requiredQuantity(category models.ItemCategory, usage []models.ExperimentUsage) float64 {
	if category.IsEquipment() {
		peak := usage[0].Quantity
		for _, u := range usage[1:] {
			if u.Quantity > peak {
				peak = u.Quantity
			}
		}
		return peak
	}
	var sum float64
	for _, u := range usage {
		sum += u.Quantity * float64(u.Trials)
	}
	return sum
}
