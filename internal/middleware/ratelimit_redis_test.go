package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestTakeTokenDrainsAndRefills(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	cfg := testConfig()
	cfg.Capacity = 2
	t0 := time.UnixMilli(1_700_000_000_000)

	d, err := takeToken(ctx, rdb, cfg, "rl:test", t0)
	require.NoError(t, err)
	assert.Equal(t, bucketDecision{Allowed: true, Remaining: 1}, d)

	d, err = takeToken(ctx, rdb, cfg, "rl:test", t0)
	require.NoError(t, err)
	assert.Equal(t, bucketDecision{Allowed: true, Remaining: 0}, d)

	d, err = takeToken(ctx, rdb, cfg, "rl:test", t0.Add(400*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(600), d.RetryMs)

	// one refill interval later a single token is back
	d, err = takeToken(ctx, rdb, cfg, "rl:test", t0.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, bucketDecision{Allowed: true, Remaining: 0}, d)

	// a long idle period refills up to capacity, never past it
	d, err = takeToken(ctx, rdb, cfg, "rl:test", t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, bucketDecision{Allowed: true, Remaining: 1}, d)

	assert.True(t, mr.Exists("rl:test"))
	assert.Equal(t, cfg.TTL, mr.TTL("rl:test"))
}

func TestTakeTokenSeparateKeys(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()
	cfg := testConfig()
	cfg.Capacity = 1
	now := time.Now()

	d, err := takeToken(ctx, rdb, cfg, "rl:a", now)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	d, err = takeToken(ctx, rdb, cfg, "rl:a", now)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	d, err = takeToken(ctx, rdb, cfg, "rl:b", now)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestTokenBucketRejectsWhenDrained(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := testConfig()
	cfg.Capacity = 2
	cfg.RefillInterval = time.Hour
	cfg.TTL = 2 * time.Hour

	e := echo.New()
	e.GET("/activities", okHandler, NewTokenBucket(cfg, rdb))

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/activities", nil)
		req.RemoteAddr = "198.51.100.4:40000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for want := 1; want >= 0; want-- {
		rec := call()
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(want), rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec := call()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", gjson.Get(rec.Body.String(), "error").String())
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/activities", nil)
	other.RemoteAddr = "198.51.100.5:40000"
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "buckets are per client ip")
}
