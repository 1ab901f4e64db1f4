package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatalByCode(t *testing.T) {
	tests := []struct {
		name  string
		err   *APIError
		fatal bool
	}{
		{"invalid token", &APIError{Code: 190, Type: "OAuthException"}, true},
		{"session expired", &APIError{Code: 102}, true},
		{"missing permission", &APIError{Code: 10}, true},
		{"app rate limit", &APIError{Code: 4}, true},
		{"user rate limit", &APIError{Code: 17}, true},
		{"page rate limit", &APIError{Code: 32}, true},
		{"permission range low", &APIError{Code: 200}, true},
		{"permission range high", &APIError{Code: 299}, true},
		{"oauth without code 100", &APIError{Code: 368, Type: "OAuthException"}, true},
		{"generic param error", &APIError{Code: 100}, false},
		{"oauth param error", &APIError{Code: 100, Type: "OAuthException"}, false},
		{"unsupported request", &APIError{Code: 1}, false},
		{"fetch failure", &APIError{Code: 324}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
			assert.Equal(t, !tt.fatal, IsTransient(tt.err))
		})
	}
}

func TestIsFatalSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("creating container: %w", &APIError{Code: 190, Type: "OAuthException"})
	assert.True(t, IsFatal(err))
}

func TestNonAPIErrorsAreTransient(t *testing.T) {
	err := errors.New("dial tcp: connection refused")
	assert.False(t, IsFatal(err))
	assert.True(t, IsTransient(err))
	assert.False(t, IsTransient(nil))
}
