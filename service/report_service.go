package service

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"lab-cost-estimator/models"
	"lab-cost-estimator/utils"
)

//go:embed templates/report.html
var templatesFS embed.FS

// Export formats accepted by Export
const (
	FormatHTML        = "html"
	FormatPDF         = "pdf"
	FormatPNG         = "png"
	FormatThumb       = "thumb"
	FormatCSV         = "csv"
	FormatProcurement = "procurement"
)

var exportFormats = map[string]struct {
	contentType string
	extension   string
}{
	FormatHTML:        {"text/html; charset=utf-8", "html"},
	FormatPDF:         {"application/pdf", "pdf"},
	FormatPNG:         {"image/png", "png"},
	FormatThumb:       {"image/jpeg", "jpg"},
	FormatCSV:         {"text/csv; charset=utf-8", "csv"},
	FormatProcurement: {"application/json", "json"},
}

// ErrUploadDisabled is returned by Upload when no Drive folder is configured
var ErrUploadDisabled = errors.New("report upload is not configured")

// Calculator computes a cost report together with the views of the
// selected experiments, both taken from one store snapshot
type Calculator interface {
	CalculateWithViews(ctx context.Context, req models.CalculateRequest) (*models.CostReport, []models.ExperimentView, error)
}

// Report bundles a cost report with its procurement plan for rendering
type Report struct {
	Report      *models.CostReport
	Plan        *models.ProcurementPlan
	CommonTotal float64
	UniqueTotal float64
}

// ExportResult is a rendered report ready to be written or uploaded
type ExportResult struct {
	Format      string
	FileName    string
	ContentType string
	Data        []byte
}

// ReportService renders cost reports to HTML, PDF, PNG, CSV and JSON
type ReportService struct {
	engine     Calculator
	uploader   ReportUploaderInterface
	currency   string
	chromePath string
	tmpl       *template.Template
	now        func() time.Time
}

// detectChromePath detects the path to Chrome/Chromium executable.
// Checks the configured path first, then common installation paths.
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		utils.Log.Warnf("⚠️  CHROME_PATH %s not found, probing default locations", configured)
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// NewReportService creates a new ReportService. uploader may be nil.
func NewReportService(
	engine Calculator,
	uploader ReportUploaderInterface,
	currency string,
	chromePath string,
) *ReportService {
	s := &ReportService{
		engine:     engine,
		uploader:   uploader,
		currency:   currency,
		chromePath: chromePath,
		now:        time.Now,
	}
	s.tmpl = template.Must(template.New("report.html").Funcs(template.FuncMap{
		"money":    func(v float64) string { return utils.FormatMoney(v, s.currency) },
		"qty":      utils.FormatQuantity,
		"category": categoryLabel,
		"join":     strings.Join,
	}).ParseFS(templatesFS, "templates/report.html"))
	return s
}

// Prepare calculates the report and builds the procurement plan for it
func (s *ReportService) Prepare(ctx context.Context, req models.CalculateRequest) (*Report, error) {
	report, selected, err := s.engine.CalculateWithViews(ctx, req)
	if err != nil {
		return nil, err
	}

	commonTotal, uniqueTotal := bucketTotals(report)
	return &Report{
		Report:      report,
		Plan:        BuildProcurementPlan(report, selected, s.now()),
		CommonTotal: commonTotal,
		UniqueTotal: uniqueTotal,
	}, nil
}

// Procurement returns only the procurement plan for a selection
func (s *ReportService) Procurement(ctx context.Context, req models.CalculateRequest) (*models.ProcurementPlan, error) {
	r, err := s.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return r.Plan, nil
}

// RenderHTML renders the report template
func (s *ReportService) RenderHTML(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// browserContext starts a headless Chrome for one render
func (s *ReportService) browserContext(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		browserCancel()
		allocCancel()
	}
}

// loadHTML replaces the current document with html, so no HTTP round trip
// to a render endpoint is needed
func loadHTML(html []byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		frameTree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(frameTree.Frame.ID, string(html)).Do(ctx)
	})
}

// GeneratePDF prints rendered report HTML to an A4 PDF using chromedp
func (s *ReportService) GeneratePDF(ctx context.Context, html []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	browserCtx, browserCancel := s.browserContext(ctx)
	defer browserCancel()

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		loadHTML(html),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).   // 210mm in inches
				WithPaperHeight(11.69). // 297mm in inches
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		utils.Log.Errorf("❌ Error generating PDF: %v", err)
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	utils.Log.Infof("✓ PDF generated: %d bytes", len(pdfBuf))
	return pdfBuf, nil
}

// GeneratePNG captures the whole rendered report as one PNG
func (s *ReportService) GeneratePNG(ctx context.Context, html []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	browserCtx, browserCancel := s.browserContext(ctx)
	defer browserCancel()

	var pngBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 dpi
		chromedp.Navigate("about:blank"),
		loadHTML(html),
		chromedp.WaitReady("body"),
		chromedp.FullScreenshot(&pngBuf, 100), // quality 100 keeps PNG encoding
	)
	if err != nil {
		utils.Log.Errorf("❌ Error generating PNG: %v", err)
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	utils.Log.Infof("✓ PNG generated: %d bytes", len(pngBuf))
	return pngBuf, nil
}

// IsExportFormat reports whether format is accepted by Export
func IsExportFormat(format string) bool {
	_, ok := exportFormats[format]
	return ok
}

// Export renders a selection in the requested format
func (s *ReportService) Export(ctx context.Context, req models.CalculateRequest, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	kind, ok := exportFormats[format]
	if !ok {
		return nil, models.ValidationError("Unsupported export format %q", format)
	}

	r, err := s.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatProcurement:
		data, err = json.MarshalIndent(r.Plan, "", "  ")
	case FormatCSV:
		var buf bytes.Buffer
		err = WriteCSV(&buf, r.Report, r.Plan, s.currency)
		data = buf.Bytes()
	default:
		data, err = s.RenderHTML(r)
		if err != nil {
			break
		}
		switch format {
		case FormatPDF:
			data, err = s.GeneratePDF(ctx, data)
		case FormatPNG:
			data, err = s.GeneratePNG(ctx, data)
		case FormatThumb:
			data, err = s.GeneratePNG(ctx, data)
			if err == nil {
				data, err = OptimizeImage(data, SizeThumb)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		Format:      format,
		FileName:    fmt.Sprintf("lab_procurement_%s.%s", s.now().Format("2006-01-02"), kind.extension),
		ContentType: kind.contentType,
		Data:        data,
	}
	utils.Log.Infof("📤 Export: %s (%d bytes)", result.FileName, len(data))
	return result, nil
}

// Upload publishes an exported report to Google Drive
func (s *ReportService) Upload(ctx context.Context, result *ExportResult) (*UploadedReport, error) {
	if s.uploader == nil {
		return nil, ErrUploadDisabled
	}
	mimeType, _, _ := strings.Cut(result.ContentType, ";")
	return s.uploader.UploadReport(ctx, result.FileName, mimeType, result.Data)
}

// UploadEnabled reports whether Upload can succeed
func (s *ReportService) UploadEnabled() bool {
	return s.uploader != nil
}
