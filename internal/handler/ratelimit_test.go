package handler

import (
	"context"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRateLimiter(rdb, limit, window, "booking"), mr
}

func TestRateLimiterFixedWindow(t *testing.T) {
	rl, mr := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = rl.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed, "other clients keep their own window")

	assert.True(t, mr.TTL("booking:10.0.0.1") > 0)

	mr.FastForward(time.Minute + time.Second)
	allowed, err = rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterRedisDown(t *testing.T) {
	rl, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := rl.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name      string
		remote    string
		forwarded string
		proxies   []netip.Prefix
		want      string
	}{
		{"direct", "192.0.2.7:51234", "", proxies, "192.0.2.7"},
		{"forwarded header ignored without proxies", "192.0.2.7:51234", "203.0.113.9", nil, "192.0.2.7"},
		{"forwarded header ignored from untrusted peer", "192.0.2.7:51234", "203.0.113.9", proxies, "192.0.2.7"},
		{"behind trusted proxy", "10.0.0.2:443", "203.0.113.9", proxies, "203.0.113.9"},
		{"spoofed leftmost hop", "10.0.0.2:443", "198.51.100.1, 203.0.113.9", proxies, "203.0.113.9"},
		{"proxy chain", "10.0.0.2:443", "203.0.113.9, 10.0.0.5", proxies, "203.0.113.9"},
		{"only proxies", "10.0.0.2:443", "10.0.0.5", proxies, "10.0.0.2"},
		{"no port", "192.0.2.7", "", proxies, "192.0.2.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/bookings", nil)
			r.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientIP(r, tt.proxies))
		})
	}
}
