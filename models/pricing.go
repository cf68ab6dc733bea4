package models

// UsageType is the billing treatment requested for an item
type UsageType string

const (
	UsageCommon UsageType = "common"
	UsageUnique UsageType = "unique"
)

// Valid reports whether u is one of the two supported treatments
func (u UsageType) Valid() bool {
	return u == UsageCommon || u == UsageUnique
}

// CalculateRequest represents the request body for POST /api/calculate.
// The yaml tags let the CLI read the same selection from a file.
type CalculateRequest struct {
	ExperimentIDs      []string                 `json:"experiment_ids" yaml:"experiment_ids"`
	ItemUsageType      map[string]UsageType     `json:"item_usage_type" yaml:"item_usage_type"`
	ItemCustomQuantity map[string]FlexibleFloat `json:"item_custom_quantity" yaml:"item_custom_quantity"`
}

// ExperimentUsage is one experiment's demand for an item
type ExperimentUsage struct {
	ExpID    string  `json:"exp_id"`
	ExpName  string  `json:"exp_name"`
	Quantity float64 `json:"quantity"`
	Trials   int     `json:"trials"`
}

// ItemUsageResult is the per-item line of a cost report
type ItemUsageResult struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Price            float64           `json:"price"`
	Category         ItemCategory      `json:"category"`
	Unit             string            `json:"unit"`
	Experiments      []ExperimentUsage `json:"experiments"`
	TotalQuantity    float64           `json:"total_quantity"`
	RequiredQuantity float64           `json:"required_quantity"`
	TotalCost        float64           `json:"total_cost"`
	UsageType        UsageType         `json:"usage_type"`
}

// CostReport is the aggregation result for a set of selected experiments
type CostReport struct {
	CommonItems   []ItemUsageResult `json:"common_items"`
	UniqueItems   []ItemUsageResult `json:"unique_items"`
	TotalCost     float64           `json:"total_cost"`
	SelectedCount int               `json:"selected_count"`
}

// AllItems returns common items followed by unique items
func (r *CostReport) AllItems() []ItemUsageResult {
	out := make([]ItemUsageResult, 0, len(r.CommonItems)+len(r.UniqueItems))
	out = append(out, r.CommonItems...)
	return append(out, r.UniqueItems...)
}
