// Package config gerencia configurações da aplicação via variáveis de ambiente.
//
// # Variáveis de Ambiente
//
// ## Servidor
//   - SERVER_PORT: Porta HTTP (default: 8080)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json ou console (default: json)
//   - INTERNAL_API_TOKEN: Token exigido em X-Internal-Token no endpoint de eventos (vazio desativa)
//
// ## Store de artigos
//   - ARTICLE_STORE: typesense ou postgres (default: typesense)
//   - TYPESENSE_HOST: Host do servidor Typesense (default: localhost)
//   - TYPESENSE_PORT: Porta do servidor (default: 8108)
//   - TYPESENSE_API_KEY: Chave de API do Typesense
//   - TYPESENSE_PROTOCOL: Protocolo http/https (default: http)
//   - TYPESENSE_ARTICLES_COLLECTION: Collection de artigos (default: articles)
//   - DATABASE_URL: Connection string do PostgreSQL (obrigatória com ARTICLE_STORE=postgres)
//   - STORE_TIMEOUT: Timeout de cada leitura no store (default: 3s)
//
// ## Cache de recomendações
//   - CACHE_BACKEND: memory, redis ou none (default: memory)
//   - REDIS_URL: URL redis:// (obrigatória com CACHE_BACKEND=redis)
//   - CACHE_KEY_PREFIX: Prefixo das chaves no Redis (default: related-articles:)
//   - CACHE_MEMORY_SIZE: Capacidade do cache em memória (default: 10000)
//   - CACHE_BREAKER_FAILURES: Falhas consecutivas até abrir o circuito (default: 5)
//   - CACHE_BREAKER_TIMEOUT: Tempo com o circuito aberto (default: 30s)
//   - INVALIDATION_TIMEOUT: Timeout de cada rodada de invalidação (default: 5s)
//
// ## Tracing
//   - TRACING_ENABLED: Habilita OpenTelemetry (default: false)
//   - TRACING_ENDPOINT: Endpoint OTLP gRPC (default: localhost:4317)
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreTypesense = "typesense"
	StorePostgres  = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

var ErrInvalidConfig = errors.New("configuração inválida")

type Config struct {
	ServerPort       string
	LogLevel         string
	LogFormat        string
	InternalAPIToken string

	// Store de artigos
	ArticleStore       string
	TypesenseHost      string
	TypesensePort      string
	TypesenseAPIKey    string
	TypesenseProtocol  string
	ArticlesCollection string
	DatabaseURL        string
	StoreTimeout       time.Duration

	// Cache de recomendações
	Cache CacheConfig

	// Tracing configuration
	TracingEnabled  bool
	TracingEndpoint string
}

// CacheConfig contém a configuração do backend de cache
type CacheConfig struct {
	Backend             string
	RedisURL            string
	KeyPrefix           string
	MemorySize          int
	BreakerFailures     int
	BreakerTimeout      time.Duration
	InvalidationTimeout time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		InternalAPIToken: getEnv("INTERNAL_API_TOKEN", ""),

		ArticleStore:       strings.ToLower(getEnv("ARTICLE_STORE", StoreTypesense)),
		TypesenseHost:      getEnv("TYPESENSE_HOST", "localhost"),
		TypesensePort:      getEnv("TYPESENSE_PORT", "8108"),
		TypesenseAPIKey:    getEnv("TYPESENSE_API_KEY", ""),
		TypesenseProtocol:  getEnv("TYPESENSE_PROTOCOL", "http"),
		ArticlesCollection: getEnv("TYPESENSE_ARTICLES_COLLECTION", "articles"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		StoreTimeout:       getEnvDuration("STORE_TIMEOUT", 3*time.Second),

		Cache: CacheConfig{
			Backend:             strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
			RedisURL:            getEnv("REDIS_URL", ""),
			KeyPrefix:           getEnv("CACHE_KEY_PREFIX", "related-articles:"),
			MemorySize:          getEnvInt("CACHE_MEMORY_SIZE", 10000),
			BreakerFailures:     getEnvInt("CACHE_BREAKER_FAILURES", 5),
			BreakerTimeout:      getEnvDuration("CACHE_BREAKER_TIMEOUT", 30*time.Second),
			InvalidationTimeout: getEnvDuration("INVALIDATION_TIMEOUT", 5*time.Second),
		},

		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),
	}
}

// Validate verifica combinações de backends e connection strings obrigatórias
func (c *Config) Validate() error {
	var errs []error

	switch c.ArticleStore {
	case StoreTypesense:
		if c.TypesenseHost == "" {
			errs = append(errs, errors.New("TYPESENSE_HOST é obrigatório com ARTICLE_STORE=typesense"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL é obrigatório com ARTICLE_STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("ARTICLE_STORE desconhecido: %q", c.ArticleStore))
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL é obrigatório com CACHE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND desconhecido: %q", c.Cache.Backend))
	}

	if c.Cache.BreakerFailures < 1 {
		errs = append(errs, errors.New("CACHE_BREAKER_FAILURES deve ser maior que zero"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// TypesenseURL monta a URL do servidor Typesense
func (c *Config) TypesenseURL() string {
	return fmt.Sprintf("%s://%s:%s", c.TypesenseProtocol, c.TypesenseHost, c.TypesensePort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
