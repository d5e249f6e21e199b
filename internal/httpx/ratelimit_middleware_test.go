package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type manualClock struct{ t time.Time }

func (c *manualClock) Now() time.Time          { return c.t }
func (c *manualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newManualLimiter(rps float64, burst int) (*RateLimiter, *manualClock) {
	clock := &manualClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     clock.Now,
		clients: make(map[string]*clientBucket),
	}, clock
}

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/books/", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BurstThenRetryAfter(t *testing.T) {
	rl, clock := newManualLimiter(1, 2)
	h := rl.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:5555").Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:5555").Code)

	w := hit(h, "10.0.0.1:5555")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"detail":"Request was throttled. Expected available in 1 seconds.","code":"THROTTLED"}`, w.Body.String())

	// A refused request must not consume the refilled token.
	clock.Advance(time.Second)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:5555").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:5555").Code)
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	rl, _ := newManualLimiter(0.001, 1)
	h := rl.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:2").Code)
}

func TestRateLimiter_ZeroBurstRefusesEverything(t *testing.T) {
	rl, _ := newManualLimiter(1, 0)
	w := hit(rl.Middleware(okHandler()), "10.0.0.1:1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiter_SweepForgetsIdleClients(t *testing.T) {
	rl, clock := newManualLimiter(1, 1)
	_, _ = rl.reserve("ip:10.0.0.1")
	clock.Advance(limiterIdleTTL / 2)
	_, _ = rl.reserve("ip:10.0.0.2")

	clock.Advance(limiterIdleTTL/2 + time.Second)
	rl.sweep()

	assert.NotContains(t, rl.clients, "ip:10.0.0.1")
	assert.Contains(t, rl.clients, "ip:10.0.0.2")
}

func TestNewRateLimiter_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rl := NewRateLimiter(ctx, 5, 5)
	cancel()
	assert.Equal(t, http.StatusOK, hit(rl.Middleware(okHandler()), "10.0.0.9:1").Code)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.4:4000"
	assert.Equal(t, "ip:192.168.1.4", clientKey(req))

	req.Header.Set("X-Forwarded-For", " , 203.0.113.9, 10.0.0.1")
	assert.Equal(t, "ip:203.0.113.9", clientKey(req))

	req = req.WithContext(ContextWithPrincipal(req.Context(), Principal{UserID: 7}))
	assert.Equal(t, "user:7", clientKey(req))
}
