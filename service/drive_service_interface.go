package service

import "context"

// ReportUploaderInterface defines the contract for publishing rendered reports
type ReportUploaderInterface interface {
	UploadReport(ctx context.Context, fileName, mimeType string, data []byte) (*UploadedReport, error)
}
