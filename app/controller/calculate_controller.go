package controller

import (
	"context"
	"net/http"

	"lab-cost-estimator/models"
	"lab-cost-estimator/utils"
)

// CostCalculator computes cost reports
type CostCalculator interface {
	Calculate(ctx context.Context, req models.CalculateRequest) (*models.CostReport, error)
}

// CalculateController handles cost calculation requests
type CalculateController struct {
	engine CostCalculator
}

// NewCalculateController creates a new CalculateController
func NewCalculateController(engine CostCalculator) *CalculateController {
	return &CalculateController{engine: engine}
}

// Calculate handles POST /api/calculate
func (c *CalculateController) Calculate(w http.ResponseWriter, r *http.Request) {
	utils.Log.Infof("📥 Calculate: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CalculateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Calculate", err)
		return
	}

	report, err := c.engine.Calculate(r.Context(), req)
	if err != nil {
		writeError(w, "Calculate", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
