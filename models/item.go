package models

// ItemCategory drives the quantity rule applied during aggregation
type ItemCategory string

const (
	ItemCategoryConsumable    ItemCategory = "consumable"
	ItemCategoryNonConsumable ItemCategory = "non_consumable"
)

// IsEquipment reports whether the item is provisioned once at peak demand.
// Anything that is not explicitly non_consumable is billed per trial.
func (c ItemCategory) IsEquipment() bool {
	return c == ItemCategoryNonConsumable
}

// OrDefault returns consumable for items stored without a category
func (c ItemCategory) OrDefault() ItemCategory {
	if c == "" {
		return ItemCategoryConsumable
	}
	return c
}

// Item represents a catalog entry (consumable or equipment)
type Item struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Unit         string       `json:"unit"`
	PricePerUnit float64      `json:"price_per_unit"`
	Category     ItemCategory `json:"category"`
}

// ItemsDocument is the persisted shape of the item catalog
type ItemsDocument struct {
	Items []Item `json:"items"`
}

// ItemPatch carries optional item fields for partial updates
type ItemPatch struct {
	Name     *string
	Price    *float64
	Unit     *string
	Category *ItemCategory
}

// UpdateItemPriceRequest represents the request body for PUT /api/items/{id}/price
type UpdateItemPriceRequest struct {
	Price *FlexibleFloat `json:"price" validate:"required"`
}

// UpdateItemPriceResponse represents the response after a price change
type UpdateItemPriceResponse struct {
	Message  string  `json:"message"`
	ItemID   string  `json:"item_id"`
	OldPrice float64 `json:"old_price"`
	NewPrice float64 `json:"new_price"`
}
