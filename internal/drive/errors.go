// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package drive

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Kind classifies a remote failure into the pipeline's error taxonomy.
type Kind int

const (
	// KindOther is an unclassified failure.
	KindOther Kind = iota
	// KindAuth means the credential is missing, invalid, or expired.
	// Fatal to a whole run: no file can proceed without it.
	KindAuth
	// KindQuota means the remote storage quota is exceeded. Fatal for the
	// file, possibly transient across runs.
	KindQuota
	// KindConversion means the provider cannot convert or export the
	// document. Permanent for this file.
	KindConversion
	// KindTransient covers rate limiting, server errors, and network I/O
	// failures worth retrying.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindQuota:
		return "quota"
	case KindConversion:
		return "conversion"
	case KindTransient:
		return "transient"
	default:
		return "other"
	}
}

// Error wraps a remote API failure with its classification and the operation
// that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is an authentication or authorization failure.
func IsAuth(err error) bool { return kindOf(err) == KindAuth }

// IsQuota reports whether err is a storage quota failure.
func IsQuota(err error) bool { return kindOf(err) == KindQuota }

// IsConversion reports whether err is a provider conversion failure.
func IsConversion(err error) bool { return kindOf(err) == KindConversion }

// IsTransient reports whether err is a retryable failure.
func IsTransient(err error) bool { return kindOf(err) == KindTransient }

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// quota failure reasons carried in googleapi error items.
var quotaReasons = map[string]bool{
	"storageQuotaExceeded":       true,
	"quotaExceeded":              true,
	"teamDriveFileLimitExceeded": true,
}

// conversion failure reasons: the stored document cannot be exported.
var conversionReasons = map[string]bool{
	"fileNotExportable":       true,
	"exportSizeLimitExceeded": true,
	"invalidConversion":       true,
}

// classify wraps err in an *Error carrying the taxonomy kind for op. A nil
// err yields nil.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: classifyKind(err), Op: op, Err: err}
}

// classifyKind maps transport and API errors onto the taxonomy.
func classifyKind(err error) Kind {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return KindAuth
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		for _, item := range gerr.Errors {
			if quotaReasons[item.Reason] {
				return KindQuota
			}
			if conversionReasons[item.Reason] {
				return KindConversion
			}
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return KindTransient
			}
		}
		switch {
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return KindAuth
		case gerr.Code == http.StatusBadRequest:
			return KindConversion
		case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
			return KindTransient
		}
		return KindOther
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return KindTransient
	}

	return KindOther
}
