package ratelimit

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestAllowWithinWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	rl := newLimiter(3, time.Minute, clock.Now)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "attempt %d", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "keys are independent")

	clock.Advance(20 * time.Second)
	assert.Equal(t, 40, rl.RetryAfter("1.2.3.4"))

	clock.Advance(40 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "new window")
}

func TestReset(t *testing.T) {
	rl := newLimiter(1, time.Hour, time.Now)

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))

	rl.Reset("k")
	assert.True(t, rl.Allow("k"))
	assert.Equal(t, 0, rl.RetryAfter("missing"))
}

func TestCleanupDropsExpiredBuckets(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	rl := newLimiter(5, time.Minute, clock.Now)

	rl.Allow("old")
	clock.Advance(30 * time.Second)
	rl.Allow("fresh")
	clock.Advance(45 * time.Second)

	rl.cleanup()
	assert.NotContains(t, rl.buckets, "old")
	assert.Contains(t, rl.buckets, "fresh")
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewSignInLimiter(5, time.Minute)
	rl.Stop()
	rl.Stop()
}

func TestExtractIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/login", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ExtractIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", ExtractIP(r))

	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.2")
	assert.Equal(t, "198.51.100.7", ExtractIP(r))
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "45 second(s)", FormatRetryMessage(45))
	assert.Equal(t, "2 minute(s)", FormatRetryMessage(120))
	assert.Equal(t, "2 minute(s)", FormatRetryMessage(61))
}
