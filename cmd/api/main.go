package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/prefeitura-rio/app-related-articles/docs"
	"github.com/prefeitura-rio/app-related-articles/internal/api/routes"
	"github.com/prefeitura-rio/app-related-articles/internal/config"
	"github.com/prefeitura-rio/app-related-articles/internal/logging"
	"github.com/prefeitura-rio/app-related-articles/internal/observability"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/cache"
	"github.com/prefeitura-rio/app-related-articles/internal/store"
)

// @title           Artigos Relacionados API
// @version         1.0
// @description     API de recomendação de artigos relacionados com score híbrido (categoria, tags e conteúdo), fallback por popularidade e cache invalidado por eventos de mutação
// @termsOfService  http://swagger.io/terms/

// @contact.name   Prefeitura do Rio de Janeiro
// @contact.url    https://prefeitura.rio
// @contact.email  contato@prefeitura.rio

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.LoadConfig()

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("configuração inválida")
	}

	observability.InitTracer(cfg)
	defer observability.ShutdownTracer()

	ctx := context.Background()

	articleStore, err := newArticleStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("store", cfg.ArticleStore).Msg("erro ao inicializar store de artigos")
	}
	defer articleStore.Close()

	recCache, err := newCache(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.Cache.Backend).Msg("erro ao inicializar cache")
	}
	if recCache != nil {
		defer recCache.Close()
	}

	engine := recommend.NewEngine(articleStore, recCache, recommend.Options{
		StoreTimeout: cfg.StoreTimeout,
	})
	coordinator := recommend.NewCoordinator(recCache, cfg.Cache.InvalidationTimeout)

	r := routes.SetupRouter(cfg, routes.Dependencies{
		Recommender: engine,
		Mutations:   coordinator,
		Store:       articleStore,
		Cache:       recCache,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().
			Str("port", cfg.ServerPort).
			Str("store", cfg.ArticleStore).
			Str("cache", cfg.Cache.Backend).
			Msg("servidor iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("erro ao iniciar servidor")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("erro ao encerrar servidor HTTP")
	}

	// Invalidações já aceitas precisam terminar antes de fechar o cache
	coordinator.Wait()

	logging.Info().Msg("servidor encerrado")
}

func newArticleStore(ctx context.Context, cfg *config.Config) (store.ArticleStore, error) {
	switch cfg.ArticleStore {
	case config.StorePostgres:
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.StoreTypesense:
		return store.NewTypesenseStore(cfg.TypesenseURL(), cfg.TypesenseAPIKey, cfg.ArticlesCollection, cfg.StoreTimeout), nil
	default:
		return nil, fmt.Errorf("store desconhecido: %s", cfg.ArticleStore)
	}
}

// newCache retorna nil quando o cache está desativado
func newCache(cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return nil, nil
	case config.CacheMemory:
		return cache.NewMemoryCache(cfg.Cache.MemorySize, recommend.CacheTTL), nil
	case config.CacheRedis:
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return cache.NewBreakerCache(redisCache, cache.BreakerConfig{
			Name:             "redis-recommendation-cache",
			FailureThreshold: uint32(cfg.Cache.BreakerFailures),
			OpenTimeout:      cfg.Cache.BreakerTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("cache desconhecido: %s", cfg.Cache.Backend)
	}
}
