package recommend

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/cache"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRelatedArticlesCenarioLLM(t *testing.T) {
	s := newFakeStore(
		published("A", "llm", []string{"gpt", "safety"}, 0),
		published("B", "llm", []string{"gpt"}, 50),
		published("C", "ethics", []string{"safety", "ethics"}, 200),
		published("D", "llm", nil, 10),
	)
	e := newTestEngine(s, nil)

	result, err := e.GetRelatedArticles(context.Background(), "A")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Count)
	assert.Equal(t, []string{"B", "D", "C"}, ids(result.Articles))
	assert.Equal(t, int32(0), s.popularCalls.Load(), "três candidatos dispensam o fallback")
}

func TestGetRelatedArticlesLimiteMaximo(t *testing.T) {
	articles := []models.Article{published("S", "saude", []string{"vacina"}, 0)}
	for i := 0; i < 9; i++ {
		tags := []string{}
		if i%2 == 0 {
			tags = []string{"vacina"}
		}
		articles = append(articles, published(fmt.Sprintf("c%d", i), "saude", tags, int64(i*10)))
	}
	e := newTestEngine(newFakeStore(articles...), nil)

	result, err := e.GetRelatedArticles(context.Background(), "S")
	require.NoError(t, err)
	require.Equal(t, MaxResults, result.Count)
	require.Len(t, result.Articles, MaxResults)

	source := articles[0]
	for i := 1; i < len(result.Articles); i++ {
		prev := ranking.Score(source, result.Articles[i-1])
		curr := ranking.Score(source, result.Articles[i])
		assert.GreaterOrEqual(t, prev, curr, "scores devem ser não crescentes")
	}
	// Os cinco com tag em comum vêm primeiro, do mais popular para o menos
	assert.Equal(t, []string{"c8", "c6", "c4", "c2", "c0", "c7"}, ids(result.Articles))
}

func TestGetRelatedArticlesFallback(t *testing.T) {
	tests := []struct {
		name     string
		articles []models.Article
		want     []string
	}{
		{
			name: "completa com populares sem repetir",
			articles: []models.Article{
				published("S", "obras", []string{"asfalto"}, 0),
				published("M", "obras", nil, 5),
				published("P1", "cultura", nil, 1000),
				published("P2", "esporte", nil, 500),
				published("P3", "cultura", nil, 10),
			},
			want: []string{"M", "P1", "P2"},
		},
		{
			name: "fonte sem categoria nem tags usa só popularidade",
			articles: []models.Article{
				published("S", "", nil, 0),
				published("P1", "cultura", nil, 1000),
				published("P2", "esporte", nil, 500),
				published("P3", "cultura", nil, 10),
				published("P4", "cultura", nil, 1),
			},
			want: []string{"P1", "P2", "P3"},
		},
		{
			name: "store esgotado devolve o que houver",
			articles: []models.Article{
				published("S", "obras", nil, 0),
				published("P1", "cultura", nil, 1000),
			},
			want: []string{"P1"},
		},
		{
			name: "store sem outros artigos elegíveis",
			articles: []models.Article{
				published("S", "obras", []string{"asfalto"}, 0),
				{ID: "R", CategoryID: "obras", Title: "rascunho", Status: models.ArticleStatusDraft},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(newFakeStore(tt.articles...), nil)

			result, err := e.GetRelatedArticles(context.Background(), "S")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(result.Articles))
			assert.Equal(t, len(tt.want), result.Count)
			assert.NotNil(t, result.Articles)
		})
	}
}

func TestGetRelatedArticlesIgnoraAgendados(t *testing.T) {
	future := testNow.Add(time.Hour)
	scheduled := published("F", "obras", []string{"asfalto"}, 9999)
	scheduled.PublishedAt = &future

	s := newFakeStore(
		published("S", "obras", []string{"asfalto"}, 0),
		scheduled,
	)
	e := newTestEngine(s, nil)

	result, err := e.GetRelatedArticles(context.Background(), "S")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)

	_, err = e.GetRelatedArticles(context.Background(), "F")
	assert.ErrorIs(t, err, ErrArticleNotFound, "fonte agendado não é elegível")
}

func TestGetRelatedArticlesNaoEncontrado(t *testing.T) {
	draft := models.Article{ID: "R", CategoryID: "obras", Title: "rascunho", Status: models.ArticleStatusDraft}
	s := newFakeStore(draft)
	c := &brokenCache{}
	e := newTestEngine(s, c)

	for _, id := range []string{"inexistente", "R"} {
		_, err := e.GetRelatedArticles(context.Background(), id)
		assert.ErrorIs(t, err, ErrArticleNotFound)
	}
	assert.Equal(t, int32(0), c.gets.Load(), "cache não deve ser consultado")
	assert.Equal(t, int32(0), c.puts.Load())
}

func TestGetRelatedArticlesCacheRoundTrip(t *testing.T) {
	s := newFakeStore(
		published("A", "llm", []string{"gpt"}, 0),
		published("B", "llm", []string{"gpt"}, 50),
		published("C", "llm", nil, 20),
		published("D", "llm", nil, 10),
	)
	c := cache.NewMemoryCache(100, CacheTTL)
	e := newTestEngine(s, c)
	ctx := context.Background()

	first, cached, err := e.Lookup(ctx, "A")
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := e.Lookup(ctx, "A")
	require.NoError(t, err)
	assert.True(t, cached)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), s.candidateCalls.Load(), "hit não deve buscar candidatos de novo")
}

func TestLookupConcorrenteMesmoFonte(t *testing.T) {
	s := newFakeStore(
		published("A", "llm", []string{"gpt"}, 0),
		published("B", "llm", []string{"gpt"}, 50),
		published("C", "llm", nil, 20),
		published("D", "llm", nil, 10),
	)
	c := cache.NewMemoryCache(100, CacheTTL)
	e := newTestEngine(s, c)
	coordinator := NewCoordinator(c, time.Second)
	ctx := context.Background()

	const callers = 16
	results := make([][]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%4 == 0 {
				coordinator.OnArticleUpdated("B")
			}
			result, _, err := e.Lookup(ctx, "A")
			errs[i] = err
			if err == nil {
				results[i] = ids(result.Articles)
			}
		}()
	}
	wg.Wait()
	coordinator.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"B", "C", "D"}, results[i])
	}
	assert.GreaterOrEqual(t, s.candidateCalls.Load(), int32(1))
	assert.LessOrEqual(t, s.candidateCalls.Load(), int32(callers))

	final, _, err := e.Lookup(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D"}, ids(final.Articles))
}

func TestGetRelatedArticlesInvalidacao(t *testing.T) {
	s := newFakeStore(
		published("X", "llm", []string{"gpt"}, 0),
		published("Y", "llm", []string{"safety"}, 0),
		published("B", "llm", nil, 30),
		published("C", "llm", nil, 20),
		published("D", "llm", nil, 10),
	)
	c := cache.NewMemoryCache(100, CacheTTL)
	e := newTestEngine(s, c)
	coordinator := NewCoordinator(c, time.Second)
	ctx := context.Background()

	for _, id := range []string{"X", "Y"} {
		_, _, err := e.Lookup(ctx, id)
		require.NoError(t, err)
	}
	require.Equal(t, int32(2), s.candidateCalls.Load())

	// X ganha a tag de Y e passa a ser o melhor candidato para Y
	s.put(published("X", "llm", []string{"gpt", "safety"}, 0))
	coordinator.OnArticleUpdated("X")
	coordinator.Wait()

	for _, id := range []string{"X", "Y"} {
		_, cached, err := e.Lookup(ctx, id)
		require.NoError(t, err)
		assert.False(t, cached, "%s deve ser recalculado após a atualização", id)
	}
	assert.Equal(t, int32(4), s.candidateCalls.Load())

	result, _, err := e.Lookup(ctx, "Y")
	require.NoError(t, err)
	assert.Equal(t, "X", result.Articles[0].ID)
}

func TestGetRelatedArticlesStoreIndisponivel(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *fakeStore)
	}{
		{name: "falha ao buscar o fonte", setup: func(s *fakeStore) { s.failGet = true }},
		{name: "falha ao buscar candidatos", setup: func(s *fakeStore) { s.failCandidates = true }},
		{name: "falha no fallback", setup: func(s *fakeStore) { s.failPopular = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFakeStore(
				published("A", "llm", []string{"gpt"}, 0),
				published("B", "llm", nil, 10),
			)
			tt.setup(s)
			c := cache.NewMemoryCache(100, CacheTTL)
			e := newTestEngine(s, c)

			result, err := e.GetRelatedArticles(context.Background(), "A")
			assert.ErrorIs(t, err, ErrStoreUnavailable)
			assert.Nil(t, result)
			assert.Equal(t, 0, c.Len(), "falha não pode gerar entrada no cache")
		})
	}
}

func TestGetRelatedArticlesCacheIndisponivel(t *testing.T) {
	s := newFakeStore(
		published("A", "llm", []string{"gpt"}, 0),
		published("B", "llm", []string{"gpt"}, 50),
		published("C", "llm", nil, 20),
		published("D", "llm", nil, 10),
	)
	c := &brokenCache{}
	e := newTestEngine(s, c)

	for i := 0; i < 2; i++ {
		result, cached, err := e.Lookup(context.Background(), "A")
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, []string{"B", "C", "D"}, ids(result.Articles))
	}

	assert.Equal(t, int32(2), c.gets.Load())
	assert.Equal(t, int32(0), c.puts.Load(), "put é pulado quando o get falha")
	assert.Equal(t, int32(2), s.candidateCalls.Load())
}

func TestWeights(t *testing.T) {
	w := Weights()
	assert.InDelta(t, 1.0, w.Category+w.Tags+w.Content, 1e-12)
	assert.Equal(t, 0.40, w.Category)
}
