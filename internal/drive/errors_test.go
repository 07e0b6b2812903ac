// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func gapiErr(code int, reasons ...string) error {
	e := &googleapi.Error{Code: code, Message: "boom"}
	for _, r := range reasons {
		e.Errors = append(e.Errors, googleapi.ErrorItem{Reason: r})
	}
	return e
}

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"unauthorized", gapiErr(http.StatusUnauthorized), KindAuth},
		{"forbidden without reason", gapiErr(http.StatusForbidden), KindAuth},
		{"storage quota", gapiErr(http.StatusForbidden, "storageQuotaExceeded"), KindQuota},
		{"drive quota", gapiErr(http.StatusForbidden, "quotaExceeded"), KindQuota},
		{"rate limited reason", gapiErr(http.StatusForbidden, "userRateLimitExceeded"), KindTransient},
		{"not exportable", gapiErr(http.StatusForbidden, "fileNotExportable"), KindConversion},
		{"export too large", gapiErr(http.StatusForbidden, "exportSizeLimitExceeded"), KindConversion},
		{"bad request", gapiErr(http.StatusBadRequest), KindConversion},
		{"too many requests", gapiErr(http.StatusTooManyRequests), KindTransient},
		{"server error", gapiErr(http.StatusBadGateway), KindTransient},
		{"expired token", &oauth2.RetrieveError{Response: &http.Response{StatusCode: 400}}, KindAuth},
		{"timeout", context.DeadlineExceeded, KindTransient},
		{"plain error", errors.New("boom"), KindOther},
		{"not found", gapiErr(http.StatusNotFound), KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyKind(tt.err))
		})
	}
}

func TestClassify_WrapsAndUnwraps(t *testing.T) {
	cause := gapiErr(http.StatusUnauthorized)
	err := classify("upload report.docx", cause)

	assert.True(t, IsAuth(err))
	assert.False(t, IsQuota(err))
	assert.ErrorContains(t, err, "upload report.docx")
	assert.True(t, errors.Is(err, cause))

	// Classification survives further wrapping.
	wrapped := fmt.Errorf("processing report.docx: %w", err)
	assert.True(t, IsAuth(wrapped))
}

func TestClassify_NilPassthrough(t *testing.T) {
	assert.NoError(t, classify("delete", nil))
}
