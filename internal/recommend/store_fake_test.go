package recommend

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/cache"
	"github.com/prefeitura-rio/app-related-articles/internal/store"
)

var (
	testNow      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	errStoreDown = errors.New("dial tcp: connection refused")
)

// fakeStore é um ArticleStore em memória com contadores de chamadas
type fakeStore struct {
	mu             sync.Mutex
	articles       map[string]models.Article
	failCandidates bool
	failPopular    bool
	failGet        bool
	candidateCalls atomic.Int32
	popularCalls   atomic.Int32
}

func newFakeStore(articles ...models.Article) *fakeStore {
	s := &fakeStore{articles: make(map[string]models.Article)}
	for _, a := range articles {
		s.articles[a.ID] = a
	}
	return s
}

func (s *fakeStore) put(a models.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[a.ID] = a
}

func (s *fakeStore) GetArticle(_ context.Context, id string) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return nil, errStoreDown
	}
	a, ok := s.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *fakeStore) FindCandidates(_ context.Context, source models.Article, now time.Time, limit int) ([]models.Article, error) {
	s.candidateCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCandidates {
		return nil, errStoreDown
	}

	sourceTags := make(map[string]bool)
	for _, t := range source.Tags {
		sourceTags[t] = true
	}

	var result []models.Article
	for _, a := range s.sorted() {
		if a.ID == source.ID || !a.IsEligible(now) {
			continue
		}
		match := source.CategoryID != "" && a.CategoryID == source.CategoryID
		for _, t := range a.Tags {
			if sourceTags[t] {
				match = true
			}
		}
		if match {
			result = append(result, a)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *fakeStore) FindPopular(_ context.Context, exclude []string, now time.Time, limit int) ([]models.Article, error) {
	s.popularCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPopular {
		return nil, errStoreDown
	}

	skip := make(map[string]bool)
	for _, id := range exclude {
		skip[id] = true
	}

	var result []models.Article
	for _, a := range s.sorted() {
		if skip[a.ID] || !a.IsEligible(now) {
			continue
		}
		result = append(result, a)
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *fakeStore) Ping(context.Context) error { return nil }
func (s *fakeStore) Close() error               { return nil }

// sorted retorna os artigos por view count decrescente e ID
func (s *fakeStore) sorted() []models.Article {
	all := make([]models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ViewCount != all[j].ViewCount {
			return all[i].ViewCount > all[j].ViewCount
		}
		return all[i].ID < all[j].ID
	})
	return all
}

// brokenCache simula um backend de cache fora do ar
type brokenCache struct {
	gets atomic.Int32
	puts atomic.Int32
}

func (c *brokenCache) Get(context.Context, string) (*models.RecommendationResult, bool, error) {
	c.gets.Add(1)
	return nil, false, cache.ErrUnavailable
}

func (c *brokenCache) Put(context.Context, string, *models.RecommendationResult, time.Duration) error {
	c.puts.Add(1)
	return cache.ErrUnavailable
}

func (c *brokenCache) Invalidate(context.Context, string) error { return cache.ErrUnavailable }
func (c *brokenCache) InvalidateAll(context.Context) error      { return cache.ErrUnavailable }
func (c *brokenCache) Close() error                             { return nil }

func published(id, category string, tags []string, views int64) models.Article {
	publishedAt := testNow.Add(-24 * time.Hour)
	return models.Article{
		ID:          id,
		CategoryID:  category,
		Tags:        tags,
		Title:       "doc" + id,
		Status:      models.ArticleStatusPublished,
		PublishedAt: &publishedAt,
		ViewCount:   views,
	}
}

func newTestEngine(s store.ArticleStore, c cache.Cache) *Engine {
	e := NewEngine(s, c, Options{})
	e.setClock(func() time.Time { return testNow })
	return e
}

func ids(articles []models.Article) []string {
	result := make([]string, 0, len(articles))
	for _, a := range articles {
		result = append(result, a.ID)
	}
	return result
}
