package middleware_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"walletly/internal/middleware"
)

func TestRateLimiter_EnforcesLimitPerKey(t *testing.T) {
	limiter := middleware.NewInMemoryRateLimiter(2, time.Minute)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// Other keys are counted on their own.
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRateLimiter_WindowExpiryFreesSlots(t *testing.T) {
	limiter := middleware.NewInMemoryRateLimiter(1, 30*time.Millisecond)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	time.Sleep(40 * time.Millisecond)
	assert.True(t, limiter.Allow("10.0.0.1"))
}
