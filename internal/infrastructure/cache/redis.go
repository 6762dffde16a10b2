package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/entity"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/infrastructure/config"
)

// NewRedisClient creates a new Redis client and verifies connectivity
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// ReportCache stores completed scans keyed by media hash so identical media
// is not re-scored. Misses and unmarshal failures are soft: callers fall
// through to full inference.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Get returns the cached scan for a key, or nil on a miss
func (c *ReportCache) Get(ctx context.Context, key string) (*entity.Scan, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var scan entity.Scan
	if err := json.Unmarshal(data, &scan); err != nil {
		return nil, nil
	}
	return &scan, nil
}

// Set stores a scan under a key with the configured TTL
func (c *ReportCache) Set(ctx context.Context, key string, scan *entity.Scan) error {
	data, err := json.Marshal(scan)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
