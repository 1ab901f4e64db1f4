package graph

import (
	"errors"
	"fmt"
)

// APIError represents an error from the Graph API
type APIError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	FBTraceID    string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph API error: %s (type: %s, code: %d, subcode: %d)", e.Message, e.Type, e.Code, e.ErrorSubcode)
}

// ErrorResponse represents an error response envelope from the API
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Graph error codes that no alternate strategy can fix. Retrying a
// different endpoint cannot repair an auth, permission or rate-limit
// problem within the same request.
const (
	codeAppRateLimit   = 4
	codePermission     = 10
	codeUserRateLimit  = 17
	codePageRateLimit  = 32
	codeSessionExpired = 102
	codeInvalidToken   = 190
	codePermissionLow  = 200
	codePermissionHigh = 299
)

// IsFatal reports whether the error means the whole attempt for this target
// should stop: invalid/expired tokens, missing permissions, rate limits.
func IsFatal(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.Code {
	case codeInvalidToken, codeSessionExpired, codePermission,
		codeAppRateLimit, codeUserRateLimit, codePageRateLimit:
		return true
	}
	if apiErr.Code >= codePermissionLow && apiErr.Code <= codePermissionHigh {
		return true
	}
	return apiErr.Type == "OAuthException" && apiErr.Code != 100
}

// IsTransient reports whether the error is strategy-specific (bad URL,
// unsupported media, container failure) and the next candidate strategy is
// worth trying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return !IsFatal(err)
}
