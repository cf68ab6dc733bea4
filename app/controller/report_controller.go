package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"lab-cost-estimator/models"
	"lab-cost-estimator/service"
	"lab-cost-estimator/utils"
)

// ReportExporter renders and publishes cost reports
type ReportExporter interface {
	Procurement(ctx context.Context, req models.CalculateRequest) (*models.ProcurementPlan, error)
	Export(ctx context.Context, req models.CalculateRequest, format string) (*service.ExportResult, error)
	Upload(ctx context.Context, result *service.ExportResult) (*service.UploadedReport, error)
}

// ReportController handles procurement plan and export requests
type ReportController struct {
	reports ReportExporter
}

// NewReportController creates a new ReportController
func NewReportController(reports ReportExporter) *ReportController {
	return &ReportController{reports: reports}
}

// Procurement handles POST /api/calculate/procurement
func (c *ReportController) Procurement(w http.ResponseWriter, r *http.Request) {
	utils.Log.Infof("📥 Procurement: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CalculateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Procurement", err)
		return
	}

	plan, err := c.reports.Procurement(r.Context(), req)
	if err != nil {
		writeError(w, "Procurement", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Export handles POST /api/calculate/export?format=pdf|png|thumb|html|csv|procurement[&upload=true].
// Without upload the rendered file is the response body; with upload the
// response describes the Drive file.
func (c *ReportController) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = service.FormatPDF
	}
	upload := false
	if raw := r.URL.Query().Get("upload"); raw != "" {
		var err error
		if upload, err = strconv.ParseBool(raw); err != nil {
			writeError(w, "Export", models.ValidationError("Invalid upload flag %q", raw))
			return
		}
	}
	utils.Log.Infof("📥 Export: Received %s request, format=%s upload=%t", r.Method, format, upload)

	var req models.CalculateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Export", err)
		return
	}

	result, err := c.reports.Export(r.Context(), req, format)
	if err != nil {
		writeError(w, "Export", err)
		return
	}

	if upload {
		uploaded, err := c.reports.Upload(r.Context(), result)
		if err != nil {
			if errors.Is(err, service.ErrUploadDisabled) {
				writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
				return
			}
			writeError(w, "Export", err)
			return
		}
		writeJSON(w, http.StatusCreated, uploaded)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		utils.Log.Errorf("❌ Export: Error writing response: %v", err)
	}
}
