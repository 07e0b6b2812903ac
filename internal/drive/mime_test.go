// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourceFile(t *testing.T) {
	tests := []struct {
		path       string
		ok         bool
		mime       string
		targetMIME string
	}{
		{
			path:       "docs/report.docx",
			ok:         true,
			mime:       "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			targetMIME: MIMEDocument,
		},
		{
			path:       "old.doc",
			ok:         true,
			mime:       "application/msword",
			targetMIME: MIMEDocument,
		},
		{
			path:       "slides.ppt",
			ok:         true,
			mime:       "application/vnd.ms-powerpoint",
			targetMIME: MIMEPresentation,
		},
		{
			path:       "deck.pptx",
			ok:         true,
			mime:       "application/vnd.openxmlformats-officedocument.presentationml.presentation",
			targetMIME: MIMEPresentation,
		},
		{
			// Extension matching is case-insensitive.
			path:       "REPORT.DOCX",
			ok:         true,
			mime:       "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			targetMIME: MIMEDocument,
		},
		{path: "notes.txt", ok: false},
		{path: "archive.pdf", ok: false},
		{path: "noextension", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			src, ok := NewSourceFile(tt.path)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ok, Supported(tt.path))
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.path, src.Path)
			assert.Equal(t, tt.mime, src.MIME)
			assert.Equal(t, tt.targetMIME, src.TargetMIME)
		})
	}
}
