package service

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"lab-cost-estimator/utils"
)

// UploadedReport identifies a report stored in Google Drive
type UploadedReport struct {
	FileID      string `json:"file_id"`
	Name        string `json:"name"`
	WebViewLink string `json:"web_view_link"`
}

// DriveService handles Google Drive API operations
type DriveService struct {
	client   *drive.Service
	folderID string
}

// Ensure DriveService implements ReportUploaderInterface
var _ ReportUploaderInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance.
// credentialsPath should be the path to the Service Account JSON file;
// folderID is the Drive folder reports are uploaded into.
func NewDriveService(ctx context.Context, credentialsPath, folderID string, opts ...option.ClientOption) (*DriveService, error) {
	if credentialsPath != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsPath)}, opts...)
	}
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client:   driveService,
		folderID: folderID,
	}, nil
}

// UploadReport stores a rendered report in the configured folder
func (ds *DriveService) UploadReport(ctx context.Context, fileName, mimeType string, data []byte) (*UploadedReport, error) {
	file := &drive.File{
		Name:     fileName,
		MimeType: mimeType,
	}
	if ds.folderID != "" {
		file.Parents = []string{ds.folderID}
	}

	created, err := ds.client.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id, name, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		utils.Log.Errorf("❌ Error uploading %s to Drive: %v", fileName, err)
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	utils.Log.Infof("✅ Report uploaded to Drive: %s (id=%s)", created.Name, created.Id)
	return &UploadedReport{
		FileID:      created.Id,
		Name:        created.Name,
		WebViewLink: created.WebViewLink,
	}, nil
}
