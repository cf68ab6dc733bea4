package models

// ExperimentItemRef links an experiment to a catalog item.
// ItemID is serialized as "id" to stay compatible with existing data files.
type ExperimentItemRef struct {
	ItemID   string  `json:"id"`
	Quantity float64 `json:"quantity"`
}

// Experiment is the persisted experiment record
type Experiment struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Category string              `json:"category"` // Category.ID
	Trials   int                 `json:"trials"`
	Grade    []string            `json:"grade"`
	Items    []ExperimentItemRef `json:"items"`
}

// EffectiveTrials returns the trial count, treating a missing value as one trial
func (e Experiment) EffectiveTrials() int {
	if e.Trials < 1 {
		return 1
	}
	return e.Trials
}

// FindItem returns the index of the ref pointing at itemID, or -1
func (e Experiment) FindItem(itemID string) int {
	for i, ref := range e.Items {
		if ref.ItemID == itemID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate without touching store state
func (e Experiment) Clone() Experiment {
	out := e
	if e.Grade != nil {
		out.Grade = append([]string(nil), e.Grade...)
	}
	if e.Items != nil {
		out.Items = append([]ExperimentItemRef(nil), e.Items...)
	}
	return out
}

// ExperimentsDocument is the persisted shape of all experiments, keyed by id
type ExperimentsDocument map[string]Experiment

// ExperimentItemView is an item ref joined with its catalog entry
type ExperimentItemView struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Quantity float64      `json:"quantity"`
	Unit     string       `json:"unit"`
	Price    float64      `json:"price"`
	Category ItemCategory `json:"category"`
	Resolved bool         `json:"-"`
}

// ExperimentView is an experiment joined with the catalog for display
type ExperimentView struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Trials     int                  `json:"trials"`
	Category   string               `json:"category"`    // category name
	CategoryID string               `json:"category_id"` // raw category id
	Grade      []string             `json:"grade"`
	Items      []ExperimentItemView `json:"items"`
	// Unresolved lists item ids that no longer exist in the catalog
	Unresolved []string `json:"-"`
}

// CreateExperimentRequest represents the request body for POST /api/experiments
type CreateExperimentRequest struct {
	Name     *string  `json:"name" validate:"required"`
	Category *string  `json:"category"`
	Trials   *int     `json:"trials"`
	Grade    []string `json:"grade"`
}

// UpdateExperimentRequest represents the request body for PUT /api/experiments/{id}.
// Only the fields present in the body are changed.
type UpdateExperimentRequest struct {
	Name     *string   `json:"name"`
	Category *string   `json:"category"`
	Trials   *int      `json:"trials"`
	Grade    *[]string `json:"grade"`
}

// AddExperimentItemRequest represents the request body for POST /api/experiments/{id}/items
type AddExperimentItemRequest struct {
	Name     string         `json:"name"`
	Price    *FlexibleFloat `json:"price" validate:"omitempty,gte=0"`
	Unit     *string        `json:"unit"`
	Category *ItemCategory  `json:"category" validate:"omitempty,oneof=consumable non_consumable"`
	Quantity *FlexibleFloat `json:"quantity" validate:"omitempty,gte=0"`
}

// UpdateExperimentItemRequest represents the request body for PUT /api/experiments/{id}/items/{itemId}
type UpdateExperimentItemRequest struct {
	Name     *string        `json:"name"`
	Price    *FlexibleFloat `json:"price" validate:"omitempty,gte=0"`
	Unit     *string        `json:"unit"`
	Category *ItemCategory  `json:"category" validate:"omitempty,oneof=consumable non_consumable"`
	Quantity *FlexibleFloat `json:"quantity" validate:"omitempty,gte=0"`
}

// MessageResponse is returned by operations that have no entity to echo back
type MessageResponse struct {
	Message string `json:"message"`
}
