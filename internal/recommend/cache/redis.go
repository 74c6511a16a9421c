package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix é o prefixo das chaves de recomendação no Redis
const DefaultKeyPrefix = "related-articles:"

const scanBatchSize = 500

// RedisCache armazena recomendações no Redis, compartilhadas entre réplicas
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache cria um cache a partir de uma URL redis://
func NewRedisCache(url, prefix string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("erro ao parsear REDIS_URL: %w", err)
	}
	return NewRedisCacheWithClient(redis.NewClient(opts), prefix), nil
}

// NewRedisCacheWithClient usa um client já configurado
func NewRedisCacheWithClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

func (c *RedisCache) key(sourceID string) string {
	return c.prefix + sourceID
}

func (c *RedisCache) Get(ctx context.Context, sourceID string) (*models.RecommendationResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(sourceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: get: %v", ErrUnavailable, err)
	}

	var result models.RecommendationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// Entrada corrompida é tratada como miss e descartada
		_ = c.client.Del(ctx, c.key(sourceID)).Err()
		return nil, false, nil
	}
	if result.Articles == nil {
		result.Articles = []models.Article{}
	}
	return &result, true, nil
}

func (c *RedisCache) Put(ctx context.Context, sourceID string, result *models.RecommendationResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("erro ao serializar recomendação: %w", err)
	}
	if err := c.client.Set(ctx, c.key(sourceID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, sourceID string) error {
	if err := c.client.Del(ctx, c.key(sourceID)).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrUnavailable, err)
	}
	return nil
}

// InvalidateAll remove todas as chaves com o prefixo, em lotes via SCAN
func (c *RedisCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("%w: scan: %v", ErrUnavailable, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: del: %v", ErrUnavailable, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ping verifica a conexão com o Redis
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
