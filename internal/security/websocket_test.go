package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/owaisjunedi/dev-interview-platform/internal/security"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := security.NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("conn1"))
	}
	assert.False(t, rl.Allow("conn1"))

	// Connections are tracked independently.
	assert.True(t, rl.Allow("conn2"))
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := security.NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Allow("conn1"))
	assert.False(t, rl.Allow("conn1"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.Allow("conn1"))
}

func TestRateLimiter_Forget(t *testing.T) {
	rl := security.NewRateLimiter(1, time.Hour)

	assert.True(t, rl.Allow("conn1"))
	assert.False(t, rl.Allow("conn1"))

	rl.Forget("conn1")
	assert.True(t, rl.Allow("conn1"))
}
