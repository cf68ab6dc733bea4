package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lab-cost-estimator/models"
	"lab-cost-estimator/utils"
)

func formatAmount(v float64) string {
	return strconv.FormatFloat(utils.RoundMoney(v), 'f', 2, 64)
}

func categoryLabel(c models.ItemCategory) string {
	if c.IsEquipment() {
		return "Equipment"
	}
	return "Consumable"
}

// WriteCSV writes a spreadsheet-friendly export of a cost report: a summary,
// one row per experiment item, the common items to procure, and bucket totals
func WriteCSV(w io.Writer, report *models.CostReport, plan *models.ProcurementPlan, currency string) error {
	cw := csv.NewWriter(w)
	money := func(label string) string { return fmt.Sprintf("%s (%s)", label, currency) }

	rows := [][]string{
		{"Lab Procurement Report"},
		{"Generated", plan.Summary.GeneratedDate},
		{"Total Experiments", strconv.Itoa(report.SelectedCount)},
		{money("Total Cost"), formatAmount(report.TotalCost)},
		{},
		{"Experiment ID", "Experiment Name", "Category", "Trials", "Item Name", "Type", "Quantity", "Unit", money("Price/Unit"), money("Total Cost")},
	}

	commonByName := make(map[string]models.CommonProcurementLine, len(plan.CommonItemsToProcure))
	for _, line := range plan.CommonItemsToProcure {
		commonByName[line.Name] = line
	}

	for _, exp := range plan.Experiments {
		prefix := []string{exp.ID, exp.Name, exp.Category, strconv.Itoa(exp.Trials)}
		for _, line := range exp.UniqueItems {
			rows = append(rows, append(append([]string{}, prefix...),
				line.Name, "Unique", utils.FormatQuantity(line.Quantity), line.Unit,
				formatAmount(line.PricePerUnit), formatAmount(line.TotalCost)))
		}
		for _, line := range exp.CommonItemsUsed {
			price := ""
			if common, ok := commonByName[line.Name]; ok {
				price = formatAmount(common.PricePerUnit)
			}
			rows = append(rows, append(append([]string{}, prefix...),
				line.Name, "Common", utils.FormatQuantity(line.QuantityNeeded), line.Unit,
				price, "(see common items)"))
		}
	}

	rows = append(rows,
		[]string{},
		[]string{"Common Items to Procure"},
		[]string{"Item Name", "Total Quantity", "Unit", money("Price/Unit"), money("Total Cost"), "Category", "Used In Experiments"},
	)
	for _, line := range plan.CommonItemsToProcure {
		rows = append(rows, []string{
			line.Name,
			utils.FormatQuantity(line.TotalQuantity),
			line.Unit,
			formatAmount(line.PricePerUnit),
			formatAmount(line.TotalCost),
			categoryLabel(line.Category),
			strings.Join(line.UsedInExperiments, ", "),
		})
	}

	commonTotal, uniqueTotal := bucketTotals(report)
	rows = append(rows,
		[]string{},
		[]string{"Type", "Count", money("Total Cost")},
		[]string{"Common Items", strconv.Itoa(len(report.CommonItems)), formatAmount(commonTotal)},
		[]string{"Unique Items", strconv.Itoa(len(report.UniqueItems)), formatAmount(uniqueTotal)},
		[]string{"TOTAL", strconv.Itoa(len(report.CommonItems) + len(report.UniqueItems)), formatAmount(report.TotalCost)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
