package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/achievement-registry/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 10,
	}
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestResponseCachePassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "page") }, ResponseCache(testCacheConfig(), nil, nil))

	rec := serve(e, http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestResponseCacheServesWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })

	calls := 0
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "page")
	}, ResponseCache(testCacheConfig(), rdb, nil))

	for i := 0; i < 2; i++ {
		rec := serve(e, http.MethodGet, "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "page", rec.Body.String())
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	key := func(strategy, method, target string) string {
		cfg := testCacheConfig()
		cfg.KeyStrategy = strategy
		c := e.NewContext(httptest.NewRequest(method, target, nil), httptest.NewRecorder())
		c.SetPath("/")
		return cacheKey(cfg, c)
	}

	assert.Equal(t, key("route", http.MethodGet, "/?a=1"), key("route", http.MethodGet, "/?a=2"))
	assert.NotEqual(t, key("route_query", http.MethodGet, "/?a=1"), key("route_query", http.MethodGet, "/?a=2"))
	assert.NotEqual(t, key("method_route", http.MethodGet, "/"), key("method_route", http.MethodHead, "/"))
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, key("", http.MethodGet, "/"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"text/html; charset=UTF-8"}}

	bs, err := encodePayload(http.StatusOK, hdr, []byte("<html></html>"))
	require.NoError(t, err)
	status, gotHdr, body, ok := decodePayload(bs)

	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, "<html></html>", string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
	_, _, _, ok = decodePayload(append([]byte{0, 0, 0, 200, 0, 0, 1, 0}, '{'))
	assert.False(t, ok)
}

func TestCaptureWriterLimit(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), limit: 4}

	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated())
	_, _ = cw.Write([]byte("def"))

	assert.True(t, cw.truncated())
	assert.Equal(t, "abcd", cw.buf.String())
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestResponseCacheMissThenHit(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	calls := 0
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		calls++
		return c.HTML(http.StatusOK, "<html>garden</html>")
	}, ResponseCache(testCacheConfig(), rdb, nil))

	miss := serve(e, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, miss.Code)
	assert.Equal(t, "MISS", miss.Header().Get("X-Cache"))
	assert.Len(t, mr.Keys(), 1)

	hit := serve(e, http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, hit.Code)
	assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, miss.Body.String(), hit.Body.String())
	assert.Equal(t, miss.Header().Get(echo.HeaderContentType), hit.Header().Get(echo.HeaderContentType))
	assert.Empty(t, hit.Header().Get(echo.HeaderContentLength))
	assert.Equal(t, 1, calls)

	ttl := mr.TTL(mr.Keys()[0])
	assert.Equal(t, time.Minute, ttl)
}

func TestResponseCacheSkipsTruncatedAndErrorResponses(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	cfg := testCacheConfig()
	cfg.MaxBodyBytes = 4
	e := echo.New()
	mw := ResponseCache(cfg, rdb, nil)
	e.GET("/big", func(c echo.Context) error { return c.String(http.StatusOK, "far too long") }, mw)
	e.GET("/missing", func(c echo.Context) error { return c.String(http.StatusNotFound, "no") }, mw)

	for i := 0; i < 2; i++ {
		rec := serve(e, http.MethodGet, "/big")
		assert.Equal(t, "far too long", rec.Body.String())
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
		assert.Equal(t, http.StatusNotFound, serve(e, http.MethodGet, "/missing").Code)
	}

	assert.Empty(t, mr.Keys())
}

func TestResponseCacheIgnoresUncachedMethods(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	e := echo.New()
	e.POST("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, ResponseCache(testCacheConfig(), rdb, nil))

	rec := serve(e, http.MethodPost, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, mr.Keys())
}
