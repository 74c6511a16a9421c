package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
)

// memoryEntry guarda o resultado e o instante de expiração da entrada
type memoryEntry struct {
	result    *models.RecommendationResult
	expiresAt time.Time
}

// MemoryCache é um cache LRU em memória com expiração por entrada.
// Serve para instâncias únicas; com várias réplicas use RedisCache.
type MemoryCache struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemoryCache cria um cache com capacidade máxima e TTL máximo de retenção
func NewMemoryCache(size int, maxTTL time.Duration) *MemoryCache {
	if size <= 0 {
		size = 10000
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, sourceID string) (*models.RecommendationResult, bool, error) {
	entry, ok := c.lru.Get(sourceID)
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.lru.Remove(sourceID)
		return nil, false, nil
	}
	return clone(entry.result), true, nil
}

func (c *MemoryCache) Put(_ context.Context, sourceID string, result *models.RecommendationResult, ttl time.Duration) error {
	c.lru.Add(sourceID, memoryEntry{
		result:    clone(result),
		expiresAt: c.now().Add(ttl),
	})
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, sourceID string) error {
	c.lru.Remove(sourceID)
	return nil
}

func (c *MemoryCache) InvalidateAll(_ context.Context) error {
	c.lru.Purge()
	return nil
}

// Len retorna o número de entradas (incluindo expiradas ainda não removidas)
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
