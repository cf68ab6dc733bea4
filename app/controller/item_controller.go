package controller

import (
	"net/http"

	"lab-cost-estimator/models"
	"lab-cost-estimator/repository"
	"lab-cost-estimator/utils"
)

// ItemController handles HTTP requests for catalog items
type ItemController struct {
	repository repository.CatalogRepositoryInterface
}

// NewItemController creates a new ItemController
func NewItemController(repo repository.CatalogRepositoryInterface) *ItemController {
	return &ItemController{
		repository: repo,
	}
}

// ListItems handles GET /api/items
func (c *ItemController) ListItems(w http.ResponseWriter, r *http.Request) {
	items := c.repository.ListItems()
	utils.Log.Debugf("📦 ListItems: returning %d items", len(items))
	writeJSON(w, http.StatusOK, models.ItemsDocument{Items: items})
}

// UpdatePrice handles PUT /api/items/{id}/price
func (c *ItemController) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	utils.Log.Infof("📥 UpdatePrice: Received %s request for %s", r.Method, formatID("item", itemID))

	var req models.UpdateItemPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "UpdatePrice", err)
		return
	}

	response, err := c.repository.UpdateItemPrice(r.Context(), itemID, req.Price.Float())
	if err != nil {
		writeError(w, "UpdatePrice", err)
		return
	}

	utils.Log.Infof("✅ UpdatePrice: %s %.2f -> %.2f", itemID, response.OldPrice, response.NewPrice)
	writeJSON(w, http.StatusOK, response)
}
