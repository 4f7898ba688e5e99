package ratelimiting

import (
	"net/http"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockedRateLimiter struct {
	consumeFunc func(key string) bool
}

func (m *mockedRateLimiter) Consume(key string) bool {
	return m.consumeFunc(key)
}

func TestTokenBucketRateLimiter(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test in short mode")
	}
	rateLimiter, stop := NewTokenBucketRateLimiter(1, 2)
	defer stop()

	assert.True(t, rateLimiter.Consume("client2"))

	// Burst of 2
	assert.True(t, rateLimiter.Consume("client1"))
	assert.True(t, rateLimiter.Consume("client1"))
	assert.False(t, rateLimiter.Consume("client1"))

	time.Sleep(1000 * time.Millisecond)
	runtime.Gosched()

	// Refill rate of 1
	assert.True(t, rateLimiter.Consume("client1"))
	assert.False(t, rateLimiter.Consume("client1"))

	// Burst of 2 - even after refill
	assert.True(t, rateLimiter.Consume("client3"))
	assert.True(t, rateLimiter.Consume("client3"))
	assert.False(t, rateLimiter.Consume("client3"))

	assert.True(t, rateLimiter.Consume("client2"))
	assert.True(t, rateLimiter.Consume("client2"))
	assert.False(t, rateLimiter.Consume("client2"))
}

func TestIPKeyFunc(t *testing.T) {
	request := &http.Request{RemoteAddr: "123.123.123.123"}
	assert.Equal(t, "ip: 123.123.123.123", IPKeyFunc(request))

	request = &http.Request{RemoteAddr: "123.123.123.123:8080"}
	assert.Equal(t, "ip: 123.123.123.123", IPKeyFunc(request))
}

func TestSessionKeyFunc(t *testing.T) {
	request := &http.Request{}
	request.SetPathValue("sessionID", "9bcbd1cf-aa1c-4c64-a54c-12ac45a1d3e4")
	assert.Equal(t, "session: 9bcbd1cf-aa1c-4c64-a54c-12ac45a1d3e4", SessionKeyFunc(request))

	assert.Equal(t, "session: <missing>", SessionKeyFunc(&http.Request{}))
}

func TestRequestBasedRateLimiter(t *testing.T) {
	var expectedKey string
	var allowed bool
	rateLimiter := &mockedRateLimiter{
		consumeFunc: func(key string) bool {
			t.Helper()
			assert.Equal(t, expectedKey, key)
			return allowed
		},
	}
	requestRateLimiter := NewRequestBasedRateLimiter(rateLimiter, IPKeyFunc)

	expectedKey = "ip: 1.1.1.1"
	allowed = true
	assert.True(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "1.1.1.1"}))
	assert.True(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "1.1.1.1"}))
	allowed = false
	assert.False(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "1.1.1.1"}))

	expectedKey = "ip: 2.1.1.1"
	allowed = true
	assert.True(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "2.1.1.1"}))

	expectedKey = "ip: 1.1.1.1"
	allowed = false
	assert.False(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "1.1.1.1"}))
}
