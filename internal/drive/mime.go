// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package drive

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/driveconv/pkg/types"
)

// Google Workspace media types used by uploads, exports, and the remote
// folder lookup.
const (
	MIMEDocument     = "application/vnd.google-apps.document"
	MIMEPresentation = "application/vnd.google-apps.presentation"
	MIMEFolder       = "application/vnd.google-apps.folder"
	MIMEPDF          = "application/pdf"
)

// sourceMIMEs maps supported extensions to the document's own media type.
var sourceMIMEs = map[string]string{
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// targetMIMEs maps supported extensions to the Workspace format the upload
// converts into. Word documents become Google Docs, presentations become
// Google Slides.
var targetMIMEs = map[string]string{
	".doc":  MIMEDocument,
	".docx": MIMEDocument,
	".ppt":  MIMEPresentation,
	".pptx": MIMEPresentation,
}

// Supported reports whether path has a convertible extension.
func Supported(path string) bool {
	_, ok := sourceMIMEs[normalizeExt(path)]
	return ok
}

// NewSourceFile builds a SourceFile for path, deriving both MIME types from
// the extension. ok is false for unsupported extensions.
func NewSourceFile(path string) (src types.SourceFile, ok bool) {
	ext := normalizeExt(path)
	mime, ok := sourceMIMEs[ext]
	if !ok {
		return types.SourceFile{}, false
	}
	return types.SourceFile{
		Path:       path,
		MIME:       mime,
		TargetMIME: targetMIMEs[ext],
	}, true
}

func normalizeExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
