package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/config"
	"github.com/prefeitura-rio/app-related-articles/internal/logging"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/cache"
	"github.com/prefeitura-rio/app-related-articles/internal/store"
	"github.com/prefeitura-rio/app-related-articles/internal/utils"
	"golang.org/x/sync/errgroup"
)

type ReindexConfig struct {
	BatchSize  int
	Workers    int
	DryRun     bool
	ArticleID  string
	FlushCache bool
}

type ReindexStats struct {
	Total     int64
	Indexed   int64
	Deleted   int64
	Errors    int64
	StartTime time.Time
}

// articleSource é a origem dos artigos (PostgreSQL)
type articleSource interface {
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	ListArticles(ctx context.Context, afterID string, limit int) ([]models.Article, error)
}

// articleIndex é o destino da sincronização (Typesense)
type articleIndex interface {
	EnsureCollection(ctx context.Context) error
	UpsertArticle(ctx context.Context, article models.Article) error
	DeleteArticle(ctx context.Context, id string) error
	ListArticleIDs(ctx context.Context) ([]string, error)
}

type Reindexer struct {
	config *ReindexConfig
	source articleSource
	index  articleIndex
	cache  cache.Cache
	stats  *ReindexStats
}

func main() {
	batchSize := flag.Int("batch", 200, "Artigos por batch")
	workers := flag.Int("workers", 4, "Workers paralelos")
	dryRun := flag.Bool("dry-run", false, "Simular sem alterar")
	articleID := flag.String("id", "", "Reindexar artigo específico")
	flushCache := flag.Bool("flush-cache", false, "Invalidar o cache de recomendações ao final")
	schemaVersion := flag.String("schema", "", "Versão do schema ao criar a collection (padrão: atual)")

	flag.Parse()

	cfg := config.LoadConfig()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.DatabaseURL == "" {
		logging.Fatal().Msg("DATABASE_URL é obrigatório para o reindex")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("erro ao conectar no PostgreSQL")
	}
	defer pg.Close()

	index := store.NewTypesenseStore(cfg.TypesenseURL(), cfg.TypesenseAPIKey, cfg.ArticlesCollection, 10*time.Second).
		WithSchemaVersion(*schemaVersion)

	var recCache cache.Cache
	if *flushCache {
		if cfg.Cache.Backend != config.CacheRedis {
			logging.Warn().Str("backend", cfg.Cache.Backend).Msg("flush-cache só tem efeito com CACHE_BACKEND=redis; ignorando")
		} else {
			redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
			if err != nil {
				logging.Fatal().Err(err).Msg("erro ao conectar no Redis")
			}
			defer redisCache.Close()
			recCache = redisCache
		}
	}

	reindexer := NewReindexer(&ReindexConfig{
		BatchSize:  *batchSize,
		Workers:    *workers,
		DryRun:     *dryRun,
		ArticleID:  *articleID,
		FlushCache: *flushCache,
	}, pg, index, recCache)

	if err := reindexer.Run(ctx); err != nil {
		logging.Fatal().Err(err).Msg("erro na reindexação")
	}
}

func NewReindexer(cfg *ReindexConfig, source articleSource, index articleIndex, recCache cache.Cache) *Reindexer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Reindexer{
		config: cfg,
		source: source,
		index:  index,
		cache:  recCache,
		stats:  &ReindexStats{StartTime: time.Now()},
	}
}

func (r *Reindexer) Run(ctx context.Context) error {
	logging.Info().
		Int("batch", r.config.BatchSize).
		Int("workers", r.config.Workers).
		Bool("dry_run", r.config.DryRun).
		Msg("iniciando reindexação de artigos")

	if !r.config.DryRun {
		if err := r.index.EnsureCollection(ctx); err != nil {
			return err
		}
	}

	var err error
	if r.config.ArticleID != "" {
		err = r.reindexArticle(ctx, r.config.ArticleID)
	} else {
		err = r.reindexAll(ctx)
	}
	if err != nil {
		return err
	}

	r.logStats()

	if r.config.FlushCache && r.cache != nil && !r.config.DryRun {
		if err := r.cache.InvalidateAll(ctx); err != nil {
			logging.Warn().Err(err).Msg("falha ao invalidar cache de recomendações")
		} else {
			logging.Info().Msg("cache de recomendações invalidado")
		}
	}

	return nil
}

func (r *Reindexer) reindexArticle(ctx context.Context, id string) error {
	article, err := r.source.GetArticle(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return r.remove(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("erro ao buscar artigo %s: %w", id, err)
	}
	atomic.AddInt64(&r.stats.Total, 1)
	return r.process(ctx, *article)
}

// reindexAll pagina o PostgreSQL por ID, distribui cada batch entre os workers e,
// terminada a varredura, remove do índice os documentos que não existem mais na origem
func (r *Reindexer) reindexAll(ctx context.Context) error {
	seen := make(map[string]struct{})
	if err := r.sweep(ctx, seen); err != nil {
		return err
	}
	return r.prune(ctx, seen)
}

func (r *Reindexer) sweep(ctx context.Context, seen map[string]struct{}) error {
	afterID := ""
	for {
		batch, err := r.source.ListArticles(ctx, afterID, r.config.BatchSize)
		if err != nil {
			return fmt.Errorf("erro ao listar artigos: %w", err)
		}
		if len(batch) == 0 {
			return nil
		}
		atomic.AddInt64(&r.stats.Total, int64(len(batch)))
		for _, article := range batch {
			seen[article.ID] = struct{}{}
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.config.Workers)
		for _, article := range batch {
			g.Go(func() error {
				if err := r.process(gctx, article); err != nil {
					atomic.AddInt64(&r.stats.Errors, 1)
					logging.Error().Err(err).Str("article_id", article.ID).Msg("erro ao indexar artigo")
				}
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		afterID = batch[len(batch)-1].ID
		logging.Info().
			Int64("total", atomic.LoadInt64(&r.stats.Total)).
			Int64("indexados", atomic.LoadInt64(&r.stats.Indexed)).
			Int64("erros", atomic.LoadInt64(&r.stats.Errors)).
			Msg("progresso")

		if len(batch) < r.config.BatchSize {
			return nil
		}
	}
}

// prune remove do índice os IDs que a varredura não encontrou na origem
func (r *Reindexer) prune(ctx context.Context, seen map[string]struct{}) error {
	indexed, err := r.index.ListArticleIDs(ctx)
	if err != nil {
		if r.config.DryRun {
			logging.Warn().Err(err).Msg("[DRY-RUN] não foi possível listar o índice; limpeza ignorada")
			return nil
		}
		return fmt.Errorf("erro ao listar documentos indexados: %w", err)
	}

	for _, id := range indexed {
		if _, ok := seen[id]; ok {
			continue
		}
		if err := r.remove(ctx, id); err != nil {
			atomic.AddInt64(&r.stats.Errors, 1)
			logging.Error().Err(err).Str("article_id", id).Msg("erro ao remover artigo órfão do índice")
		}
	}
	return nil
}

// remove apaga do índice um artigo que não existe mais na origem
func (r *Reindexer) remove(ctx context.Context, id string) error {
	if r.config.DryRun {
		logging.Debug().Str("article_id", id).Msg("[DRY-RUN] removeria artigo do índice")
		atomic.AddInt64(&r.stats.Deleted, 1)
		return nil
	}

	if err := r.index.DeleteArticle(ctx, id); err != nil {
		return err
	}
	atomic.AddInt64(&r.stats.Deleted, 1)
	logging.Info().Str("article_id", id).Msg("artigo removido do índice")
	return nil
}

func (r *Reindexer) process(ctx context.Context, article models.Article) error {
	if article.Slug == "" {
		article.Slug = utils.ArticleSlug(article.Title, article.ID)
	}

	if r.config.DryRun {
		logging.Debug().Str("article_id", article.ID).Msg("[DRY-RUN] indexaria artigo")
		atomic.AddInt64(&r.stats.Indexed, 1)
		return nil
	}

	if err := r.index.UpsertArticle(ctx, article); err != nil {
		return err
	}
	atomic.AddInt64(&r.stats.Indexed, 1)
	return nil
}

func (r *Reindexer) logStats() {
	logging.Info().
		Int64("total", r.stats.Total).
		Int64("indexados", r.stats.Indexed).
		Int64("removidos", r.stats.Deleted).
		Int64("erros", r.stats.Errors).
		Dur("duracao", time.Since(r.stats.StartTime)).
		Msg("reindexação concluída")
}
