package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/logging"
	"github.com/prefeitura-rio/app-related-articles/internal/metrics"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/store"
)

// FallbackSelector aplica os limites de quantidade ao ranking e, quando há menos que
// minResults candidatos, completa a lista com os artigos mais populares.
type FallbackSelector struct {
	store      store.ArticleStore
	minResults int
	maxResults int
	now        func() time.Time
}

// NewFallbackSelector cria um seletor com os limites padrão (MinResults, MaxResults)
func NewFallbackSelector(articleStore store.ArticleStore) *FallbackSelector {
	return &FallbackSelector{
		store:      articleStore,
		minResults: MinResults,
		maxResults: MaxResults,
		now:        time.Now,
	}
}

// Select devolve a lista final: ranking truncado em maxResults, completado por
// popularidade até minResults quando necessário. O preenchimento para em minResults,
// mesmo havendo mais artigos elegíveis; só o ranking pode chegar a maxResults.
// Artigos de preenchimento nunca repetem o fonte nem candidatos já selecionados.
func (s *FallbackSelector) Select(ctx context.Context, source models.Article, ranked []models.ScoredCandidate) ([]models.Article, error) {
	selected := make([]models.Article, 0, s.maxResults)
	seen := map[string]bool{source.ID: true}

	for _, c := range ranked {
		if len(selected) == s.maxResults {
			break
		}
		if seen[c.Article.ID] {
			continue
		}
		seen[c.Article.ID] = true
		selected = append(selected, c.Article)
	}

	if len(selected) >= s.minResults {
		return selected, nil
	}

	exclude := make([]string, 0, len(seen))
	for id := range seen {
		exclude = append(exclude, id)
	}

	missing := s.minResults - len(selected)
	now := s.now()
	popular, err := s.store.FindPopular(ctx, exclude, now, missing)
	if err != nil {
		return nil, fmt.Errorf("%w: fallback por popularidade: %v", ErrStoreUnavailable, err)
	}

	padded := 0
	for _, p := range popular {
		if len(selected) == s.minResults {
			break
		}
		if seen[p.ID] || !p.IsEligible(now) {
			continue
		}
		seen[p.ID] = true
		selected = append(selected, p)
		padded++
	}

	if padded > 0 {
		metrics.FallbackPadded.Add(float64(padded))
		logging.Ctx(ctx).Debug().
			Str("source_id", source.ID).
			Int("ranked", len(selected)-padded).
			Int("padded", padded).
			Msg("recomendação completada por popularidade")
	}

	return selected, nil
}
