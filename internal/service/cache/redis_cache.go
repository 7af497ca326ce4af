package cache

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	pkgcache "RiskLens/pkg/cache"
)

// RedisCache adapts the layered cache (memory L1, Redis L2) to BytesCache.
type RedisCache struct {
	layered *pkgcache.LayeredCache
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	host, portRaw, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		host = cfg.Addr
		portRaw = "6379"
	}
	port, err := strconv.Atoi(portRaw)
	if err != nil {
		port = 6379
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Password),
		pkgcache.WithRedisDB(cfg.DB),
	)
	if err != nil {
		return nil, err
	}
	return &RedisCache{layered: pkgcache.NewLayeredCache(redisCache)}, nil
}

func (r *RedisCache) GetBytes(key string) ([]byte, bool, error) {
	var s string
	err := r.layered.Get(context.Background(), key, &s)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(s), true, nil
}

func (r *RedisCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	return r.layered.Set(context.Background(), key, string(value), ttl)
}
