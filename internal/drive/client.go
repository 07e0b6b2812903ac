// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package drive wraps the Google Drive v3 API as a remote conversion client:
// upload with a Workspace target format, export as PDF, delete. Remote
// failures are classified into the pipeline's error taxonomy.
package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/pdiddy/driveconv/pkg/types"
)

// DefaultFolderName is the remote folder uploads are parented under when the
// configuration does not name one.
const DefaultFolderName = "GDrive Conversions"

// Client calls the Drive API with an authenticated HTTP client injected at
// construction time. It is safe for sequential reuse across files; the
// resolved parent folder ID is cached after the first upload.
type Client struct {
	svc        *driveapi.Service
	folderName string
	folderID   string
}

// New builds a Client on top of hc, which must already carry credentials
// (and any retry transport). Extra options are passed through to the API
// client; tests use them to point at a fake server.
func New(ctx context.Context, hc *http.Client, cfg types.DriveConfig, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)
	svc, err := driveapi.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	name := cfg.RemoteFolder
	if name == "" {
		name = DefaultFolderName
	}
	return &Client{svc: svc, folderName: name}, nil
}

// UploadAndConvert uploads the document at src.Path, asking the provider to
// store it in the Workspace format src.TargetMIME. The stored copy is the
// converted document.
func (c *Client) UploadAndConvert(ctx context.Context, src types.SourceFile) (types.RemoteObject, error) {
	folderID, err := c.folder(ctx)
	if err != nil {
		return types.RemoteObject{}, err
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return types.RemoteObject{}, fmt.Errorf("opening %s: %w", src.Path, err)
	}
	defer f.Close()

	name := filepath.Base(src.Path)
	meta := &driveapi.File{
		Name:     name,
		MimeType: src.TargetMIME,
		Parents:  []string{folderID},
	}
	created, err := c.svc.Files.Create(meta).
		Media(f, googleapi.ContentType(src.MIME)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return types.RemoteObject{}, classify("upload "+name, err)
	}
	return types.RemoteObject{ID: created.Id, Name: name}, nil
}

// ExportPDF asks the provider to render the stored document as PDF and
// returns the byte stream. The caller closes the reader.
func (c *Client) ExportPDF(ctx context.Context, obj types.RemoteObject) (io.ReadCloser, error) {
	resp, err := c.svc.Files.Export(obj.ID, MIMEPDF).Context(ctx).Download()
	if err != nil {
		return nil, classify("export "+obj.Name, err)
	}
	return resp.Body, nil
}

// Delete removes the remote object. Callers treat failure as best-effort:
// log it, never abort an otherwise successful conversion.
func (c *Client) Delete(ctx context.Context, obj types.RemoteObject) error {
	if err := c.svc.Files.Delete(obj.ID).Context(ctx).Do(); err != nil {
		return classify("delete "+obj.Name, err)
	}
	return nil
}

// folder resolves the parent folder by name, creating it when absent. The
// ID is cached for the lifetime of the client.
func (c *Client) folder(ctx context.Context) (string, error) {
	if c.folderID != "" {
		return c.folderID, nil
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		c.folderName, MIMEFolder)
	list, err := c.svc.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id)").
		Context(ctx).
		Do()
	if err != nil {
		return "", classify("find folder "+c.folderName, err)
	}

	if len(list.Files) > 0 {
		c.folderID = list.Files[0].Id
		return c.folderID, nil
	}

	created, err := c.svc.Files.Create(&driveapi.File{
		Name:     c.folderName,
		MimeType: MIMEFolder,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", classify("create folder "+c.folderName, err)
	}
	c.folderID = created.Id
	return c.folderID, nil
}
