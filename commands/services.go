package commands

import (
	"context"
	"fmt"

	"sjsage522/orgcrawler/config"
	"sjsage522/orgcrawler/internal/crawler"
	"sjsage522/orgcrawler/services/cache"
	"sjsage522/orgcrawler/services/publisher"
	"sjsage522/orgcrawler/services/snapshot"
)

// Services holds the optional backing services
type Services struct {
	Cache     cache.CacheService
	PageCache *crawler.PageCache
	Snapshots *snapshot.Store
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices connects the services enabled by cfg. Memcache and Redis
// problems disable the feature with a warning instead of failing the command.
func initializeServices(ctx context.Context, cfg config.Config, withPublisher bool) (*Services, error) {
	services := &Services{
		Snapshots: snapshot.NewStore(cfg.SnapshotDir),
	}

	if cfg.MemcacheAddr != "" && cfg.PageCacheTTL > 0 {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr, cfg.NavigationTimeout, cfg.Concurrency)
		if err := mc.Ping(); err != nil {
			log.WithError(err).Warn().Str("addr", cfg.MemcacheAddr).Msg("Memcache unreachable; page cache disabled")
		} else {
			services.Cache = mc
			services.PageCache = crawler.NewPageCache(mc, cfg.PageCacheTTL)
			log.Info().Str("addr", cfg.MemcacheAddr).Dur("ttl", cfg.PageCacheTTL).Msg("Connected to Memcache")
		}
	}

	if withPublisher {
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("publishing requires REDIS_ADDR")
		}
		redisPublisher := publisher.NewRedisPublisher(
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStreamPrefix,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(ctx); err != nil {
			redisPublisher.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		services.Publisher = redisPublisher

		log.Info().
			Str("addr", cfg.RedisAddr).
			Int("db", cfg.RedisDB).
			Str("stream_prefix", cfg.RedisStreamPrefix).
			Msg("Connected to Redis")
	}

	return services, nil
}
