// Package store fornece acesso somente leitura aos artigos consumidos pelo motor
// de recomendação. Os registros são convertidos em models.Article e validados aqui,
// na fronteira, para que o código de scoring nunca lide com campos ausentes.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/utils"
)

var (
	ErrNotFound       = errors.New("artigo não encontrado")
	ErrInvalidArticle = errors.New("artigo inválido no store")
)

// ArticleStore é o contrato de leitura do repositório de artigos
type ArticleStore interface {
	// GetArticle busca um artigo pelo ID, independente do status. Retorna ErrNotFound se não existir.
	GetArticle(ctx context.Context, id string) (*models.Article, error)

	// FindCandidates retorna até limit artigos elegíveis (publicados e com publicação até now),
	// diferentes do fonte, que compartilham a categoria ou ao menos uma tag com ele.
	FindCandidates(ctx context.Context, source models.Article, now time.Time, limit int) ([]models.Article, error)

	// FindPopular retorna até limit artigos elegíveis ordenados por view count decrescente,
	// ignorando os IDs em exclude.
	FindPopular(ctx context.Context, exclude []string, now time.Time, limit int) ([]models.Article, error)

	// Ping verifica a disponibilidade do backend
	Ping(ctx context.Context) error

	Close() error
}

var validate = validator.New()

// validateArticle normaliza e valida um artigo vindo do backend; artigos sem slug recebem um gerado do título
func validateArticle(a *models.Article) error {
	a.Status = models.ArticleStatus(strings.ToLower(strings.TrimSpace(string(a.Status))))
	a.Tags = normalizeTags(a.Tags)
	if a.Slug == "" {
		a.Slug = utils.ArticleSlug(a.Title, a.ID)
	}

	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: id=%q: %v", ErrInvalidArticle, a.ID, err)
	}
	return nil
}

// normalizeTags remove tags vazias e duplicadas preservando a ordem
func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// filterEligible descarta registros inválidos ou inelegíveis e o próprio fonte.
// Os backends já filtram na consulta; isto protege contra relógios divergentes e dados sujos.
func filterEligible(articles []models.Article, now time.Time, exclude map[string]bool) []models.Article {
	result := make([]models.Article, 0, len(articles))
	for i := range articles {
		a := articles[i]
		if exclude[a.ID] {
			continue
		}
		if err := validateArticle(&a); err != nil {
			continue
		}
		if !a.IsEligible(now) {
			continue
		}
		result = append(result, a)
	}
	return result
}

func excludeSet(ids ...string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// popularOverFetch multiplica o limite de FindPopular; registros descartados por
// filterEligible não podem deixar o fallback abaixo do mínimo
const popularOverFetch = 2

func popularFetchLimit(limit int) int {
	return limit * popularOverFetch
}

func truncateArticles(articles []models.Article, limit int) []models.Article {
	if len(articles) > limit {
		return articles[:limit]
	}
	return articles
}
