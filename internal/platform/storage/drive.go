// Package storage uploads rendered billing documents to Google Drive.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"

	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveStore uploads documents into a single Drive folder using a service
// account and shares each file by link.
type DriveStore struct {
	service  *drive.Service
	folderID string
}

var _ portssvc.DocumentStoreSvc = (*DriveStore)(nil)

// NewDriveStore reads the service account credentials file and builds a Drive
// client scoped to files the account itself creates.
func NewDriveStore(ctx context.Context, credentialsFile string, folderID string) (*DriveStore, error) {
	credentials, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentials, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
	}

	service, err := drive.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveStore{service: service, folderID: folderID}, nil
}

// Upload stores the content in the configured folder, grants anyone-with-link
// read access, and returns the view link.
func (s *DriveStore) Upload(ctx context.Context, filename string, mimeType string, content []byte) (string, error) {
	meta := &drive.File{
		Name:     filename,
		MimeType: mimeType,
	}
	if s.folderID != "" {
		meta.Parents = []string{s.folderID}
	}

	file, err := s.service.Files.Create(meta).
		Media(bytes.NewReader(content)).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to drive: %w", filename, err)
	}

	_, err = s.service.Permissions.Create(file.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to share %s: %w", filename, err)
	}

	return file.WebViewLink, nil
}
