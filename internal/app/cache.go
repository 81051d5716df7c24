package app

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/pkg/logger"
)

// BuildCacheStore selects the cache backend from configuration. Redis is
// preferred when enabled and reachable; otherwise the database-backed store
// serves as the fallback so caching semantics stay identical.
func BuildCacheStore(cfg CacheConfig, db *gorm.DB) cache.Store {
	log := logger.WithModule("cache")

	if cfg.Redis.Enabled {
		timeout := cfg.Redis.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
			Timeout:  timeout,
		})
		if err == nil {
			log.Info("redis cache enabled", zap.String("address", cfg.Redis.Address))
			return client
		}
		log.Warn("redis unavailable, falling back to database cache", zap.Error(err))
	}

	if db != nil {
		return cache.NewDatabaseStore(db)
	}
	return nil
}
