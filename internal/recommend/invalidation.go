package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/logging"
	"github.com/prefeitura-rio/app-related-articles/internal/metrics"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/cache"
)

// DefaultInvalidationTimeout limita o tempo de cada rodada de invalidação
const DefaultInvalidationTimeout = 5 * time.Second

// Coordinator recebe as mutações de artigos e remove as entradas de cache afetadas.
//
// Toda mutação dispara uma invalidação direcionada (a entrada do próprio artigo) e uma
// ampla (todas as entradas), porque os metadados de um artigo alteram o ranking de
// outros fontes. A invalidação roda em background e nunca falha a mutação: erros
// são registrados e descartados, e o TTL limita a janela de dados antigos.
type Coordinator struct {
	cache   cache.Cache
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewCoordinator cria o coordenador. Um cache nil torna as chamadas no-op.
func NewCoordinator(c cache.Cache, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultInvalidationTimeout
	}
	return &Coordinator{
		cache:   c,
		timeout: timeout,
	}
}

func (c *Coordinator) OnArticleCreated(id string) {
	c.dispatch(models.ArticleEventCreated, id)
}

func (c *Coordinator) OnArticleUpdated(id string) {
	c.dispatch(models.ArticleEventUpdated, id)
}

func (c *Coordinator) OnArticleDeleted(id string) {
	c.dispatch(models.ArticleEventDeleted, id)
}

func (c *Coordinator) OnArticlePublished(id string) {
	c.dispatch(models.ArticleEventPublished, id)
}

func (c *Coordinator) OnArticleUnpublished(id string) {
	c.dispatch(models.ArticleEventUnpublished, id)
}

// OnArticlePublishStateChanged é usado quando quem notifica não sabe a direção da mudança
func (c *Coordinator) OnArticlePublishStateChanged(id string) {
	c.dispatch(models.ArticleEventPublishStateChanged, id)
}

// Handle encaminha um evento de mutação para a entrada correspondente
func (c *Coordinator) Handle(event models.ArticleEventType, id string) {
	switch event {
	case models.ArticleEventCreated:
		c.OnArticleCreated(id)
	case models.ArticleEventUpdated:
		c.OnArticleUpdated(id)
	case models.ArticleEventDeleted:
		c.OnArticleDeleted(id)
	case models.ArticleEventPublished:
		c.OnArticlePublished(id)
	case models.ArticleEventUnpublished:
		c.OnArticleUnpublished(id)
	case models.ArticleEventPublishStateChanged:
		c.OnArticlePublishStateChanged(id)
	default:
		logging.Warn().Str("event", string(event)).Str("article_id", id).Msg("evento de mutação desconhecido ignorado")
	}
}

// Wait bloqueia até que as invalidações em andamento terminem
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) dispatch(event models.ArticleEventType, id string) {
	if c.cache == nil {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.invalidate(event, id)
	}()
}

func (c *Coordinator) invalidate(event models.ArticleEventType, id string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	log := logging.With().
		Str("event", string(event)).
		Str("article_id", id).
		Logger()

	if err := c.cache.Invalidate(ctx, id); err != nil {
		metrics.RecordInvalidation("targeted", "error")
		log.Warn().Err(err).Msg("falha na invalidação direcionada do cache")
	} else {
		metrics.RecordInvalidation("targeted", "ok")
	}

	if err := c.cache.InvalidateAll(ctx); err != nil {
		metrics.RecordInvalidation("broad", "error")
		log.Warn().Err(err).Msg("falha na invalidação ampla do cache")
		return
	}
	metrics.RecordInvalidation("broad", "ok")
	log.Debug().Msg("cache de recomendações invalidado")
}
