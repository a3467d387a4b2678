package config

// Redis backs the response cache and the rate limiter.  Both degrade to
// pass-through when no client is available, so a missing Redis never
// blocks ticket operations.

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection parameters for Redis.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// LoadRedisConfig reads:
//
//	REDIS_ENABLED – set to false to run without Redis (default true)
//	REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//	REDIS_ADDR – host:port shorthand, used when host/port are not both set
//	REDIS_PASSWORD – optional password
//	REDIS_DB – database number (default 0)
//	REDIS_TLS – enable TLS when "true" or "1"
func LoadRedisConfig() RedisConfig {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}
	tlsEnv := envStr("REDIS_TLS", "")
	return RedisConfig{
		Enabled:  envBool("REDIS_ENABLED", true),
		Addr:     addr,
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
		TLS:      strings.EqualFold(tlsEnv, "true") || tlsEnv == "1",
	}
}

// NewRedisClient instantiates a Redis client from cfg and pings it with a
// short timeout.  The returned client is nil when Redis is disabled or
// unreachable; callers then run without caching and rate limiting.
func NewRedisClient(ctx context.Context, cfg RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
