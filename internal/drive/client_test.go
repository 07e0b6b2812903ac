// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/pdiddy/driveconv/pkg/types"
)

// fakeDrive is a minimal in-memory Drive v3 endpoint covering the calls the
// client makes: list (folder lookup), create (folder and media upload),
// export, delete.
type fakeDrive struct {
	mu       sync.Mutex
	nextID   int
	objects  map[string]string // id -> name
	deleted  []string
	uploads  int
	failWith func(op string) (int, string) // optional injected failure
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{objects: map[string]string{}}
}

func (f *fakeDrive) newID() string {
	f.nextID++
	return fmt.Sprintf("obj-%d", f.nextID)
}

func (f *fakeDrive) fail(w http.ResponseWriter, op string) bool {
	if f.failWith == nil {
		return false
	}
	code, reason := f.failWith(op)
	if code == 0 {
		return false
	}
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error": {"code": %d, "message": "injected", "errors": [{"reason": %q}]}}`, code, reason)
	return true
}

func (f *fakeDrive) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files"):
			if f.fail(w, "list") {
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"files": []any{}})

		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/upload/"):
			if f.fail(w, "upload") {
				return
			}
			f.uploads++
			id := f.newID()
			f.objects[id] = "uploaded"
			json.NewEncoder(w).Encode(map[string]string{"id": id})

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/files"):
			if f.fail(w, "create") {
				return
			}
			id := f.newID()
			f.objects[id] = "folder"
			json.NewEncoder(w).Encode(map[string]string{"id": id})

		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/export"):
			if f.fail(w, "export") {
				return
			}
			w.Header().Set("Content-Type", MIMEPDF)
			io.WriteString(w, "%PDF-1.4 fake")

		case r.Method == http.MethodDelete:
			if f.fail(w, "delete") {
				return
			}
			id := strings.TrimPrefix(r.URL.Path, "/drive/v3/files/")
			id = filepath.Base(id)
			delete(f.objects, id)
			f.deleted = append(f.deleted, id)
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "unexpected: "+r.Method+" "+r.URL.Path, http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T, f *fakeDrive) *Client {
	t.Helper()
	ts := httptest.NewServer(f.handler())
	t.Cleanup(ts.Close)

	c, err := New(context.Background(), ts.Client(), types.DriveConfig{},
		option.WithEndpoint(ts.URL))
	require.NoError(t, err)
	return c
}

func writeDoc(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("doc bytes"), 0o644))
	return path
}

func TestClient_UploadExportDelete(t *testing.T) {
	fake := newFakeDrive()
	c := newTestClient(t, fake)
	ctx := context.Background()

	src, ok := NewSourceFile(writeDoc(t, "report.docx"))
	require.True(t, ok)

	obj, err := c.UploadAndConvert(ctx, src)
	require.NoError(t, err)
	assert.NotEmpty(t, obj.ID)
	assert.Equal(t, "report.docx", obj.Name)
	assert.Equal(t, 1, fake.uploads)

	body, err := c.ExportPDF(ctx, obj)
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	body.Close()
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))

	require.NoError(t, c.Delete(ctx, obj))
	assert.Contains(t, fake.deleted, obj.ID)
}

func TestClient_FolderCreatedOnce(t *testing.T) {
	fake := newFakeDrive()
	c := newTestClient(t, fake)
	ctx := context.Background()

	for _, name := range []string{"a.docx", "b.docx"} {
		src, ok := NewSourceFile(writeDoc(t, name))
		require.True(t, ok)
		_, err := c.UploadAndConvert(ctx, src)
		require.NoError(t, err)
	}

	// One folder create plus two media uploads; the folder ID is cached.
	folders := 0
	for _, kind := range fake.objects {
		if kind == "folder" {
			folders++
		}
	}
	assert.Equal(t, 1, folders)
	assert.Equal(t, 2, fake.uploads)
}

func TestClient_QuotaErrorClassified(t *testing.T) {
	fake := newFakeDrive()
	fake.failWith = func(op string) (int, string) {
		if op == "upload" {
			return http.StatusForbidden, "storageQuotaExceeded"
		}
		return 0, ""
	}
	c := newTestClient(t, fake)

	src, ok := NewSourceFile(writeDoc(t, "report.docx"))
	require.True(t, ok)

	_, err := c.UploadAndConvert(context.Background(), src)
	require.Error(t, err)
	assert.True(t, IsQuota(err))
}

func TestClient_ExportErrorClassified(t *testing.T) {
	fake := newFakeDrive()
	fake.failWith = func(op string) (int, string) {
		if op == "export" {
			return http.StatusForbidden, "fileNotExportable"
		}
		return 0, ""
	}
	c := newTestClient(t, fake)

	_, err := c.ExportPDF(context.Background(), types.RemoteObject{ID: "obj-9", Name: "bad.doc"})
	require.Error(t, err)
	assert.True(t, IsConversion(err))
}

func TestClient_UploadMissingFile(t *testing.T) {
	c := newTestClient(t, newFakeDrive())

	src := types.SourceFile{Path: filepath.Join(t.TempDir(), "gone.docx")}
	_, err := c.UploadAndConvert(context.Background(), src)
	assert.Error(t, err)
}
