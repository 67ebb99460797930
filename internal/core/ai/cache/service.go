package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// keyPrefix Redis 鍵前綴
const keyPrefix = "recipe-finder:"

// RedisStore Redis 緩存服務
type RedisStore struct {
	client *redis.Client
	config *config.CacheConfig
	hits   int64
	misses int64
}

// NewRedisStore 創建 Redis 緩存服務
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線", zap.String("addr", cfg.RedisAddr))

	return NewRedisStoreWithClient(client, cfg), nil
}

// NewRedisStoreWithClient 以既有連線建立 Redis 緩存服務
func NewRedisStoreWithClient(client *redis.Client, cfg *config.CacheConfig) *RedisStore {
	return &RedisStore{
		client: client,
		config: cfg,
	}
}

// Get 獲取緩存，未命中時回傳 common.ErrCacheMiss
func (s *RedisStore) Get(ctx context.Context, kind, payload string) (string, error) {
	val, err := s.client.Get(ctx, keyPrefix+GenerateKey(kind, payload)).Result()
	if err != nil {
		atomic.AddInt64(&s.misses, 1)
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss(kind)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	atomic.AddInt64(&s.hits, 1)
	common.LogCacheHit(kind)
	return val, nil
}

// Set 設置緩存
func (s *RedisStore) Set(ctx context.Context, kind, payload, value string) error {
	if err := s.client.Set(ctx, keyPrefix+GenerateKey(kind, payload), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats 獲取緩存統計信息
func (s *RedisStore) Stats() map[string]interface{} {
	return map[string]interface{}{
		"backend": config.CacheBackendRedis,
		"addr":    s.config.RedisAddr,
		"hits":    atomic.LoadInt64(&s.hits),
		"misses":  atomic.LoadInt64(&s.misses),
	}
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
