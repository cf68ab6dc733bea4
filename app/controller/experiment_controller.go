package controller

import (
	"net/http"

	"lab-cost-estimator/models"
	"lab-cost-estimator/repository"
	"lab-cost-estimator/utils"
)

// ExperimentController handles HTTP requests for experiments
type ExperimentController struct {
	repository repository.ExperimentRepositoryInterface
}

// NewExperimentController creates a new ExperimentController
func NewExperimentController(repo repository.ExperimentRepositoryInterface) *ExperimentController {
	return &ExperimentController{repository: repo}
}

// ListExperiments handles GET /api/experiments
func (c *ExperimentController) ListExperiments(w http.ResponseWriter, r *http.Request) {
	views := c.repository.List()
	utils.Log.Debugf("🧪 ListExperiments: returning %d experiments", len(views))
	writeJSON(w, http.StatusOK, views)
}

// CreateExperiment handles POST /api/experiments
func (c *ExperimentController) CreateExperiment(w http.ResponseWriter, r *http.Request) {
	utils.Log.Infof("📥 CreateExperiment: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CreateExperimentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "CreateExperiment", err)
		return
	}

	view, err := c.repository.Create(r.Context(), req)
	if err != nil {
		writeError(w, "CreateExperiment", err)
		return
	}

	utils.Log.Infof("✅ CreateExperiment: created %s", view.ID)
	writeJSON(w, http.StatusCreated, view)
}

// GetExperiment handles GET /api/experiments/{id}
func (c *ExperimentController) GetExperiment(w http.ResponseWriter, r *http.Request) {
	view, err := c.repository.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, "GetExperiment", err)
		return
	}
	if len(view.Unresolved) > 0 {
		utils.Log.Warnf("⚠️  GetExperiment: %s references missing items %v", view.ID, view.Unresolved)
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateExperiment handles PUT /api/experiments/{id}
func (c *ExperimentController) UpdateExperiment(w http.ResponseWriter, r *http.Request) {
	expID := r.PathValue("id")
	utils.Log.Infof("📥 UpdateExperiment: Received %s request for %s", r.Method, formatID("experiment", expID))

	var req models.UpdateExperimentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "UpdateExperiment", err)
		return
	}

	view, err := c.repository.Update(r.Context(), expID, req)
	if err != nil {
		writeError(w, "UpdateExperiment", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeleteExperiment handles DELETE /api/experiments/{id}
func (c *ExperimentController) DeleteExperiment(w http.ResponseWriter, r *http.Request) {
	expID := r.PathValue("id")
	utils.Log.Infof("📥 DeleteExperiment: Received %s request for %s", r.Method, formatID("experiment", expID))

	if err := c.repository.Delete(r.Context(), expID); err != nil {
		writeError(w, "DeleteExperiment", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Experiment deleted successfully"})
}
