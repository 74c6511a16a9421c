package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/store"
)

// CandidateFetcher busca o pool de candidatos de um artigo fonte: artigos elegíveis
// que compartilham a categoria ou ao menos uma tag.
type CandidateFetcher struct {
	store    store.ArticleStore
	poolSize int
	now      func() time.Time
}

// NewCandidateFetcher cria um fetcher com o tamanho de pool informado
func NewCandidateFetcher(articleStore store.ArticleStore, poolSize int) *CandidateFetcher {
	if poolSize <= 0 {
		poolSize = CandidatePoolSize
	}
	return &CandidateFetcher{
		store:    articleStore,
		poolSize: poolSize,
		now:      time.Now,
	}
}

// Fetch retorna até poolSize candidatos, nunca incluindo o próprio fonte
func (f *CandidateFetcher) Fetch(ctx context.Context, source models.Article) ([]models.Article, error) {
	if source.CategoryID == "" && len(source.Tags) == 0 {
		return []models.Article{}, nil
	}

	now := f.now()
	candidates, err := f.store.FindCandidates(ctx, source, now, f.poolSize)
	if err != nil {
		return nil, fmt.Errorf("%w: candidatos: %v", ErrStoreUnavailable, err)
	}

	pool := make([]models.Article, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == source.ID || !c.IsEligible(now) {
			continue
		}
		pool = append(pool, c)
	}
	return pool, nil
}
