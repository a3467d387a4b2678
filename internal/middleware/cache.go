package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ticket-booking/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds a stable cache key honoring prefix/strategy.  The
// generation is part of the key so a bump orphans every older entry.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, gen string) string {
	r := c.Request()
	route := c.Path()
	query := r.URL.RawQuery

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", route}
	case "method_route":
		parts = []string{"method", r.Method, "route", route}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", route, "q", query}
	default: // "route_query"
		parts = []string{"route", route, "q", query}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%s:%x", cfg.Prefix, gen, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// currentGeneration reads the cache generation; a missing key is generation 0.
func currentGeneration(ctx context.Context, cfg config.CacheConfig, rdb *redis.Client) (string, error) {
	gen, err := rdb.Get(ctx, cfg.GenerationKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

// NewRedisCache caches successful responses of the configured methods and
// stores headers + body so clients see the original formatting.  Any other
// request that succeeds (status below 400) increments the generation
// counter, which invalidates everything cached before it.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				if err := next(c); err != nil {
					return err
				}
				if c.Response().Status < http.StatusBadRequest {
					if err := rdb.Incr(ctx, cfg.GenerationKey()).Err(); err != nil {
						c.Logger().Warnf("cache: bump generation: %v", err)
					}
				}
				return nil
			}

			gen, err := currentGeneration(ctx, cfg, rdb)
			if err != nil {
				// without a generation the entry could be stale
				return next(c)
			}
			key := cacheKeyFrom(cfg, c, gen)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) || strings.EqualFold(k, "X-Cache") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK {
				return nil
			}
			if maxBody > 0 && cw.size > maxBody {
				// truncated bodies are never served from cache
				return nil
			}
			hdr := c.Response().Header().Clone()
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
			}
			return nil
		}
	}
}
