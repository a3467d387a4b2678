package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching will be disabled.
// Methods lists the HTTP methods to cache (e.g. GET, HEAD).  TTL defines the
// lifetime of cache entries.  KeyStrategy determines which parts of the request
// contribute to the cache key.  Prefix namespaces both the entries and the
// generation counter that mutating requests bump to invalidate them.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.  Defaults
// are used when variables are not set.  All methods are upper-cased.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1048576),
	}
}

// GenerationKey is the Redis key holding the current cache generation.
func (c CacheConfig) GenerationKey() string {
	return c.Prefix + ":gen"
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
