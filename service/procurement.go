package service

import (
	"time"

	"lab-cost-estimator/models"
)

// experimentQuantity is one experiment's share of an item. Equipment is
// counted once per experiment, consumables once per trial.
func experimentQuantity(category models.ItemCategory, usage models.ExperimentUsage) float64 {
	if category.IsEquipment() {
		return usage.Quantity
	}
	return usage.Quantity * float64(usage.Trials)
}

func usageFor(item models.ItemUsageResult, expID string) (models.ExperimentUsage, bool) {
	for _, u := range item.Experiments {
		if u.ExpID == expID {
			return u, true
		}
	}
	return models.ExperimentUsage{}, false
}

// BuildProcurementPlan turns a cost report into a purchasing document:
// items billed per experiment, shared items drawn on by each experiment, and
// the shared items to buy once. Experiments are listed once each, in
// selection order.
func BuildProcurementPlan(report *models.CostReport, selected []models.ExperimentView, generated time.Time) *models.ProcurementPlan {
	plan := &models.ProcurementPlan{
		Summary: models.ProcurementSummary{
			TotalExperiments: report.SelectedCount,
			TotalCost:        report.TotalCost,
			GeneratedDate:    generated.UTC().Format(time.RFC3339),
		},
		Experiments:          make([]models.ProcurementExperiment, 0, len(selected)),
		CommonItemsToProcure: make([]models.CommonProcurementLine, 0, len(report.CommonItems)),
	}

	seen := make(map[string]bool, len(selected))
	for _, exp := range selected {
		if seen[exp.ID] {
			continue
		}
		seen[exp.ID] = true

		section := models.ProcurementExperiment{
			ID:              exp.ID,
			Name:            exp.Name,
			Category:        exp.Category,
			Trials:          exp.Trials,
			Grade:           exp.Grade,
			UniqueItems:     []models.ProcurementLine{},
			CommonItemsUsed: []models.SharedUsageLine{},
		}
		if section.Grade == nil {
			section.Grade = []string{}
		}

		for _, item := range report.UniqueItems {
			usage, ok := usageFor(item, exp.ID)
			if !ok {
				continue
			}
			qty := experimentQuantity(item.Category, usage)
			section.UniqueItems = append(section.UniqueItems, models.ProcurementLine{
				Name:         item.Name,
				Quantity:     qty,
				Unit:         item.Unit,
				PricePerUnit: item.Price,
				TotalCost:    qty * item.Price,
				Category:     item.Category,
			})
		}
		for _, item := range report.CommonItems {
			usage, ok := usageFor(item, exp.ID)
			if !ok {
				continue
			}
			section.CommonItemsUsed = append(section.CommonItemsUsed, models.SharedUsageLine{
				Name:           item.Name,
				QuantityNeeded: experimentQuantity(item.Category, usage),
				Unit:           item.Unit,
			})
		}
		plan.Experiments = append(plan.Experiments, section)
	}

	for _, item := range report.CommonItems {
		usedIn := make([]string, 0, len(item.Experiments))
		for _, u := range item.Experiments {
			usedIn = append(usedIn, u.ExpName)
		}
		plan.CommonItemsToProcure = append(plan.CommonItemsToProcure, models.CommonProcurementLine{
			Name:              item.Name,
			TotalQuantity:     item.TotalQuantity,
			Unit:              item.Unit,
			PricePerUnit:      item.Price,
			TotalCost:         item.TotalCost,
			Category:          item.Category,
			UsedInExperiments: usedIn,
		})
	}
	return plan
}

// bucketTotals sums item costs per bucket
func bucketTotals(report *models.CostReport) (common, unique float64) {
	for _, item := range report.CommonItems {
		common += item.TotalCost
	}
	for _, item := range report.UniqueItems {
		unique += item.TotalCost
	}
	return common, unique
}
