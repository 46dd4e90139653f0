package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(3, 1*time.Minute)

	// Test: Should allow first 3 requests
	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("192.168.1.1"), "request %d should be allowed", i+1)
	}

	// Test: Should block 4th request
	assert.False(t, limiter.Allow("192.168.1.1"), "4th request should be blocked")

	// Test: Different IP should be allowed
	assert.True(t, limiter.Allow("192.168.1.2"), "request from different IP should be allowed")
}

func TestRateLimiter_Refill(t *testing.T) {
	limiter := NewRateLimiter(2, 200*time.Millisecond)

	// Use up the limit
	limiter.Allow("192.168.1.1")
	limiter.Allow("192.168.1.1")
	assert.False(t, limiter.Allow("192.168.1.1"), "request should be blocked before refill")

	// One token every 100ms
	time.Sleep(150 * time.Millisecond)
	assert.True(t, limiter.Allow("192.168.1.1"), "request should be allowed after refill")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(5, 100*time.Millisecond)

	limiter.Allow("192.168.1.1")
	limiter.Allow("192.168.1.2")
	limiter.Allow("192.168.1.3")

	limiter.mu.Lock()
	assert.Len(t, limiter.visitors, 3)
	limiter.mu.Unlock()

	time.Sleep(150 * time.Millisecond)
	limiter.cleanup()

	limiter.mu.Lock()
	assert.Empty(t, limiter.visitors)
	limiter.mu.Unlock()
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewRateLimiter(10, 1*time.Minute)
	done := make(chan bool)

	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 3; j++ {
				limiter.Allow("192.168.1.1")
			}
			done <- true
		}()
	}
	for i := 0; i < 5; i++ {
		<-done
	}

	// 15 requests against a burst of 10
	assert.False(t, limiter.Allow("192.168.1.1"), "should have exceeded limit with concurrent requests")
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(1, 1*time.Minute)
	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPut, "/api/settings", nil)
	req.RemoteAddr = "10.0.0.7:41234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Same host, different source port
	req.RemoteAddr = "10.0.0.7:41235"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
