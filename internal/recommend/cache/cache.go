// Package cache implementa o cache de recomendações, indexado pelo ID do artigo fonte.
//
// Todas as operações são atômicas individualmente, mas não são compostas em transações:
// duas gravações concorrentes para a mesma chave resultam em "última escrita vence".
// Entradas nunca são alteradas no lugar, apenas substituídas por inteiro.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/models"
)

// ErrUnavailable indica que o backend de cache não pode ser usado no momento
var ErrUnavailable = errors.New("cache indisponível")

// Cache é o contrato do cache de recomendações
type Cache interface {
	// Get retorna o resultado em cache e true, ou false em caso de miss/expiração
	Get(ctx context.Context, sourceID string) (*models.RecommendationResult, bool, error)

	// Put grava (ou substitui) a entrada do fonte com o TTL informado
	Put(ctx context.Context, sourceID string, result *models.RecommendationResult, ttl time.Duration) error

	// Invalidate remove a entrada de um fonte
	Invalidate(ctx context.Context, sourceID string) error

	// InvalidateAll remove todas as entradas
	InvalidateAll(ctx context.Context) error

	Close() error
}

// clone copia o resultado para que chamadores não compartilhem a fatia armazenada
func clone(result *models.RecommendationResult) *models.RecommendationResult {
	if result == nil {
		return nil
	}
	articles := make([]models.Article, len(result.Articles))
	copy(articles, result.Articles)
	return &models.RecommendationResult{
		Articles:    articles,
		Count:       result.Count,
		GeneratedAt: result.GeneratedAt,
	}
}
