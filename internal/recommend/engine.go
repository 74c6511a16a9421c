// Package recommend implementa o motor de artigos relacionados: busca de candidatos,
// ranking híbrido, fallback por popularidade, cache e invalidação.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/logging"
	"github.com/prefeitura-rio/app-related-articles/internal/metrics"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/cache"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/ranking"
	"github.com/prefeitura-rio/app-related-articles/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "recommend"

// Options ajusta o comportamento operacional do engine (não o algoritmo)
type Options struct {
	// StoreTimeout limita cada leitura no store; zero desativa
	StoreTimeout time.Duration

	// CandidatePoolSize limita o pool de candidatos; zero usa CandidatePoolSize
	CandidatePoolSize int
}

// Engine calcula recomendações de artigos relacionados com cache na frente.
// É seguro para uso concorrente; duas misses simultâneas para o mesmo fonte
// calculam e gravam em paralelo, e a última escrita vence.
type Engine struct {
	store    store.ArticleStore
	cache    cache.Cache
	fetcher  *CandidateFetcher
	fallback *FallbackSelector
	opts     Options
	now      func() time.Time
}

// NewEngine cria o engine. Um cache nil desativa o cache.
func NewEngine(articleStore store.ArticleStore, c cache.Cache, opts Options) *Engine {
	e := &Engine{
		store:    articleStore,
		cache:    c,
		fetcher:  NewCandidateFetcher(articleStore, opts.CandidatePoolSize),
		fallback: NewFallbackSelector(articleStore),
		opts:     opts,
	}
	e.setClock(time.Now)
	return e
}

func (e *Engine) setClock(now func() time.Time) {
	e.now = now
	e.fetcher.now = now
	e.fallback.now = now
}

// GetRelatedArticles retorna de 3 a 6 artigos relacionados ao fonte (ou nenhum, se
// não houver artigos elegíveis no store).
func (e *Engine) GetRelatedArticles(ctx context.Context, id string) (*models.RecommendationResult, error) {
	result, _, err := e.Lookup(ctx, id)
	return result, err
}

// Lookup é GetRelatedArticles informando também se o resultado veio do cache
func (e *Engine) Lookup(ctx context.Context, id string) (*models.RecommendationResult, bool, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "GetRelatedArticles")
	defer span.End()
	span.SetAttributes(attribute.String("recommend.source_id", id))

	log := logging.Ctx(ctx).With().Str("source_id", id).Logger()

	source, err := e.loadSource(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrArticleNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Source lookup failed")
		}
		return nil, false, err
	}

	useCache := e.cache != nil
	if useCache {
		cached, found, err := e.cache.Get(ctx, id)
		switch {
		case err != nil:
			// Cache fora do ar: recalcula sem gravar
			useCache = false
			metrics.RecordCacheLookup("error")
			log.Warn().Err(err).Msg("cache indisponível, recalculando sem cache")
			span.AddEvent("Cache unavailable, skipping get and put")
		case found:
			metrics.RecordCacheLookup("hit")
			span.SetAttributes(attribute.Bool("recommend.cached", true))
			return cached, true, nil
		default:
			metrics.RecordCacheLookup("miss")
		}
	} else {
		metrics.RecordCacheLookup("skipped")
	}

	result, err := e.compute(ctx, *source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Recommendation computation failed")
		return nil, false, err
	}
	span.SetAttributes(
		attribute.Bool("recommend.cached", false),
		attribute.Int("recommend.count", result.Count),
	)

	if useCache {
		if err := e.cache.Put(ctx, id, result, CacheTTL); err != nil {
			metrics.RecordCacheWrite("error")
			log.Warn().Err(err).Msg("erro ao gravar recomendação no cache")
		} else {
			metrics.RecordCacheWrite("ok")
		}
	}

	return result, false, nil
}

// loadSource busca o fonte e aplica a regra de elegibilidade
func (e *Engine) loadSource(ctx context.Context, id string) (*models.Article, error) {
	storeCtx, cancel := e.storeContext(ctx)
	defer cancel()

	source, err := e.store.GetArticle(storeCtx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidArticle) {
			return nil, fmt.Errorf("%w: %s", ErrArticleNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !source.IsEligible(e.now()) {
		return nil, fmt.Errorf("%w: %s não está publicado", ErrArticleNotFound, id)
	}
	return source, nil
}

// compute executa fetch → score → fallback. Nada é gravado aqui: o resultado só
// vai para o cache depois de completamente montado.
func (e *Engine) compute(ctx context.Context, source models.Article) (*models.RecommendationResult, error) {
	start := time.Now()
	defer func() {
		metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	}()

	fetchCtx, fetchSpan := otel.Tracer(tracerName).Start(ctx, "FetchCandidates")
	storeCtx, cancel := e.storeContext(fetchCtx)
	pool, err := e.fetcher.Fetch(storeCtx, source)
	cancel()
	fetchSpan.SetAttributes(attribute.Int("recommend.pool_size", len(pool)))
	fetchSpan.End()
	if err != nil {
		return nil, err
	}

	_, scoreSpan := otel.Tracer(tracerName).Start(ctx, "RankCandidates")
	ranked := ranking.Rank(source, pool)
	scoreSpan.End()

	fallbackCtx, fallbackSpan := otel.Tracer(tracerName).Start(ctx, "SelectResults")
	storeCtx, cancel = e.storeContext(fallbackCtx)
	articles, err := e.fallback.Select(storeCtx, source, ranked)
	cancel()
	fallbackSpan.End()
	if err != nil {
		return nil, err
	}

	return models.NewRecommendationResult(articles, e.now()), nil
}

func (e *Engine) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.opts.StoreTimeout)
}
