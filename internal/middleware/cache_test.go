package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-booking/internal/config"
)

const detailsRoute = "/api/v1/tickets/details"

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          30 * time.Second,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

// keyFor computes the cache key the middleware derives for a details lookup.
func keyFor(cfg config.CacheConfig, query, gen string) string {
	req := httptest.NewRequest(http.MethodGet, detailsRoute+"?"+query, nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	c.SetPath(detailsRoute)
	return cacheKeyFrom(cfg, c, gen)
}

func cachedEcho(cfg config.CacheConfig, mw echo.MiddlewareFunc, calls *int) *echo.Echo {
	e := echo.New()
	g := e.Group("", mw)
	g.GET(detailsRoute, func(c echo.Context) error {
		*calls++
		return c.String(http.StatusOK, "hello")
	})
	g.GET("/api/v1/tickets/section", func(c echo.Context) error {
		*calls++
		return c.String(http.StatusNotFound, "nope")
	})
	g.DELETE("/api/v1/tickets/remove", func(c echo.Context) error {
		*calls++
		return c.NoContent(http.StatusOK)
	})
	g.PUT("/api/v1/tickets/modify", func(c echo.Context) error {
		*calls++
		return c.NoContent(http.StatusBadRequest)
	})
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCacheKey_IncludesGeneration(t *testing.T) {
	cfg := testCacheConfig()
	assert.NotEqual(t, keyFor(cfg, "email=a@example.com", "0"), keyFor(cfg, "email=a@example.com", "1"))
	assert.NotEqual(t, keyFor(cfg, "email=a@example.com", "0"), keyFor(cfg, "email=b@example.com", "0"))
	assert.Regexp(t, `^cache:7:[0-9a-f]{40}$`, keyFor(cfg, "email=a@example.com", "7"))
}

func TestRedisCache_Hit(t *testing.T) {
	cfg := testCacheConfig()
	rdb, mock := redismock.NewClientMock()
	payload, err := encodePayload(http.StatusOK, http.Header{"Content-Type": {"application/json"}}, []byte(`{"cached":true}`))
	require.NoError(t, err)

	mock.ExpectGet("cache:gen").SetVal("4")
	mock.ExpectGet(keyFor(cfg, "email=a@example.com", "4")).SetVal(string(payload))

	calls := 0
	rec := serve(cachedEcho(cfg, NewRedisCache(cfg, rdb), &calls), http.MethodGet, detailsRoute+"?email=a@example.com")

	assert.Equal(t, 0, calls)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"cached":true}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_MissStoresResponse(t *testing.T) {
	cfg := testCacheConfig()
	rdb, mock := redismock.NewClientMock()
	key := keyFor(cfg, "email=a@example.com", "0")
	payload, err := encodePayload(http.StatusOK, http.Header{
		"Content-Type": {echo.MIMETextPlainCharsetUTF8},
		"X-Cache":      {"MISS"},
	}, []byte("hello"))
	require.NoError(t, err)

	mock.ExpectGet("cache:gen").RedisNil()
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSetEx(key, payload, cfg.TTL).SetVal("OK")

	calls := 0
	rec := serve(cachedEcho(cfg, NewRedisCache(cfg, rdb), &calls), http.MethodGet, detailsRoute+"?email=a@example.com")

	assert.Equal(t, 1, calls)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "hello", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_NonOKNotStored(t *testing.T) {
	cfg := testCacheConfig()
	rdb, mock := redismock.NewClientMock()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/section?section=A", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/v1/tickets/section")

	mock.ExpectGet("cache:gen").SetVal("2")
	mock.ExpectGet(cacheKeyFrom(cfg, c, "2")).RedisNil()

	calls := 0
	rec := serve(cachedEcho(cfg, NewRedisCache(cfg, rdb), &calls), http.MethodGet, "/api/v1/tickets/section?section=A")

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_MutationBumpsGeneration(t *testing.T) {
	cfg := testCacheConfig()
	rdb, mock := redismock.NewClientMock()
	mock.ExpectIncr("cache:gen").SetVal(5)

	calls := 0
	rec := serve(cachedEcho(cfg, NewRedisCache(cfg, rdb), &calls), http.MethodDelete, "/api/v1/tickets/remove?email=a@example.com")

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_FailedMutationKeepsGeneration(t *testing.T) {
	cfg := testCacheConfig()
	rdb, mock := redismock.NewClientMock()

	calls := 0
	rec := serve(cachedEcho(cfg, NewRedisCache(cfg, rdb), &calls), http.MethodPut, "/api/v1/tickets/modify")

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GenerationErrorBypasses(t *testing.T) {
	cfg := testCacheConfig()
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("cache:gen").SetErr(errors.New("connection refused"))

	calls := 0
	rec := serve(cachedEcho(cfg, NewRedisCache(cfg, rdb), &calls), http.MethodGet, detailsRoute+"?email=a@example.com")

	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_DisabledPassesThrough(t *testing.T) {
	cfg := testCacheConfig()
	cfg.Enabled = false

	calls := 0
	rec := serve(cachedEcho(cfg, NewRedisCache(cfg, nil), &calls), http.MethodGet, detailsRoute)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "hello", rec.Body.String())
}
