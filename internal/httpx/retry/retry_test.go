package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	got, err := Do(context.Background(), fastConfig(), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), fastConfig(), func() (string, error) {
		attempts++
		return "", errors.New("still failing")
	})
	require.Error(t, err)
	// 1 initial attempt + MaxRetries
	assert.Equal(t, 3, attempts)
}

func TestDoIfStopsWhenNotRetryable(t *testing.T) {
	attempts := 0
	_, err := DoIf(context.Background(), fastConfig(),
		func() (int, error) {
			attempts++
			return 0, errors.New("fatal")
		},
		func(_ int, err error) bool { return false },
	)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{MaxRetries: 5, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second}
	start := time.Now()
	_, err := Do(ctx, cfg, func() (int, error) {
		return 0, errors.New("always fails")
	})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
