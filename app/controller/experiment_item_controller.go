package controller

import (
	"net/http"

	"lab-cost-estimator/models"
	"lab-cost-estimator/repository"
	"lab-cost-estimator/utils"
)

// ExperimentItemController handles HTTP requests for the items of an experiment
type ExperimentItemController struct {
	repository repository.ExperimentRepositoryInterface
}

// NewExperimentItemController creates a new ExperimentItemController
func NewExperimentItemController(repo repository.ExperimentRepositoryInterface) *ExperimentItemController {
	return &ExperimentItemController{repository: repo}
}

// AddItem handles POST /api/experiments/{id}/items
func (c *ExperimentItemController) AddItem(w http.ResponseWriter, r *http.Request) {
	expID := r.PathValue("id")
	utils.Log.Infof("📥 AddItem: Received %s request for %s", r.Method, formatID("experiment", expID))

	var req models.AddExperimentItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "AddItem", err)
		return
	}

	view, err := c.repository.AddItem(r.Context(), expID, repository.AddItemInput{
		Name:     req.Name,
		Price:    models.FloatPtr(req.Price),
		Unit:     req.Unit,
		Category: req.Category,
		Quantity: models.FloatPtr(req.Quantity),
	})
	if err != nil {
		writeError(w, "AddItem", err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// UpdateItem handles PUT /api/experiments/{id}/items/{itemId}
func (c *ExperimentItemController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	expID, itemID := r.PathValue("id"), r.PathValue("itemId")
	utils.Log.Infof("📥 UpdateItem: Received %s request for %s %s", r.Method, formatID("experiment", expID), formatID("item", itemID))

	var req models.UpdateExperimentItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "UpdateItem", err)
		return
	}

	view, err := c.repository.UpdateItem(r.Context(), expID, itemID, repository.UpdateItemInput{
		Name:     req.Name,
		Price:    models.FloatPtr(req.Price),
		Unit:     req.Unit,
		Category: req.Category,
		Quantity: models.FloatPtr(req.Quantity),
	})
	if err != nil {
		writeError(w, "UpdateItem", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/experiments/{id}/items/{itemId}
func (c *ExperimentItemController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	expID, itemID := r.PathValue("id"), r.PathValue("itemId")
	utils.Log.Infof("📥 RemoveItem: Received %s request for %s %s", r.Method, formatID("experiment", expID), formatID("item", itemID))

	if err := c.repository.RemoveItem(r.Context(), expID, itemID); err != nil {
		writeError(w, "RemoveItem", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Item deleted successfully"})
}
