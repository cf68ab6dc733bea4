package models

// ProcurementSummary is the header of a procurement plan
type ProcurementSummary struct {
	TotalExperiments int     `json:"total_experiments"`
	TotalCost        float64 `json:"total_cost"`
	GeneratedDate    string  `json:"generated_date"`
}

// ProcurementLine is an item billed to a single experiment
type ProcurementLine struct {
	Name         string       `json:"name"`
	Quantity     float64      `json:"quantity"`
	Unit         string       `json:"unit"`
	PricePerUnit float64      `json:"price_per_unit"`
	TotalCost    float64      `json:"total_cost"`
	Category     ItemCategory `json:"category"`
}

// SharedUsageLine is a common item drawn on by one experiment
type SharedUsageLine struct {
	Name           string  `json:"name"`
	QuantityNeeded float64 `json:"quantity_needed"`
	Unit           string  `json:"unit"`
}

// ProcurementExperiment is the per-experiment section of a procurement plan
type ProcurementExperiment struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Trials          int               `json:"trials"`
	Grade           []string          `json:"grade"`
	UniqueItems     []ProcurementLine `json:"unique_items"`
	CommonItemsUsed []SharedUsageLine `json:"common_items_used"`
}

// CommonProcurementLine is a shared item to buy once for all experiments
type CommonProcurementLine struct {
	Name              string       `json:"name"`
	TotalQuantity     float64      `json:"total_quantity"`
	Unit              string       `json:"unit"`
	PricePerUnit      float64      `json:"price_per_unit"`
	TotalCost         float64      `json:"total_cost"`
	Category          ItemCategory `json:"category"`
	UsedInExperiments []string     `json:"used_in_experiments"`
}

// ProcurementPlan is the exportable purchasing document for a cost report
type ProcurementPlan struct {
	Summary              ProcurementSummary      `json:"summary"`
	Experiments          []ProcurementExperiment `json:"experiments"`
	CommonItemsToProcure []CommonProcurementLine `json:"common_items_to_procure"`
}
