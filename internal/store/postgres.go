package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
)

// pgxPool é o subconjunto do pgxpool.Pool usado pelo store (permite pgxmock nos testes)
type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore lê artigos das tabelas articles e article_tags
type PostgresStore struct {
	pool pgxPool
}

// NewPostgresStore abre um pool de conexões a partir da DATABASE_URL
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao parsear DATABASE_URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar pool do postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

const articleColumns = `
	SELECT a.id,
	       COALESCE(a.category_id, ''),
	       a.title,
	       COALESCE(a.summary, ''),
	       COALESCE(a.slug, ''),
	       a.status,
	       a.published_at,
	       a.view_count,
	       COALESCE(array_agg(t.tag_id ORDER BY t.tag_id) FILTER (WHERE t.tag_id IS NOT NULL), '{}') AS tags
	FROM articles a
	LEFT JOIN article_tags t ON t.article_id = a.id`

const eligibleClause = `a.status = 'published' AND a.published_at IS NOT NULL AND a.published_at <= $1`

// GetArticle busca um artigo pelo ID
func (s *PostgresStore) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	row := s.pool.QueryRow(ctx, articleColumns+`
	WHERE a.id = $1
	GROUP BY a.id`, id)

	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}

	if err := validateArticle(article); err != nil {
		return nil, err
	}
	return article, nil
}

// FindCandidates busca artigos elegíveis que compartilham categoria ou tags com o fonte
func (s *PostgresStore) FindCandidates(ctx context.Context, source models.Article, now time.Time, limit int) ([]models.Article, error) {
	tags := source.Tags
	if tags == nil {
		tags = []string{}
	}

	rows, err := s.pool.Query(ctx, articleColumns+`
	WHERE `+eligibleClause+`
	  AND a.id <> $2
	  AND (
	    ($3::text <> '' AND a.category_id = $3)
	    OR EXISTS (
	      SELECT 1 FROM article_tags x
	      WHERE x.article_id = a.id AND x.tag_id = ANY($4)
	    )
	  )
	GROUP BY a.id
	ORDER BY a.view_count DESC, a.id
	LIMIT $5`, now, source.ID, source.CategoryID, tags, limit)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	return filterEligible(articles, now, excludeSet(source.ID)), nil
}

// FindPopular busca os artigos elegíveis mais vistos, exceto os IDs informados
func (s *PostgresStore) FindPopular(ctx context.Context, exclude []string, now time.Time, limit int) ([]models.Article, error) {
	if exclude == nil {
		exclude = []string{}
	}

	rows, err := s.pool.Query(ctx, articleColumns+`
	WHERE `+eligibleClause+`
	  AND NOT (a.id = ANY($2))
	GROUP BY a.id
	ORDER BY a.view_count DESC, a.id
	LIMIT $3`, now, exclude, popularFetchLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("find popular: %w", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, fmt.Errorf("find popular: %w", err)
	}

	return truncateArticles(filterEligible(articles, now, excludeSet(exclude...)), limit), nil
}

// ListArticles pagina todos os artigos por ID (keyset), usado pelo reindex
func (s *PostgresStore) ListArticles(ctx context.Context, afterID string, limit int) ([]models.Article, error) {
	rows, err := s.pool.Query(ctx, articleColumns+`
	WHERE a.id > $1
	GROUP BY a.id
	ORDER BY a.id
	LIMIT $2`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Ping verifica a conexão com o banco
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close fecha o pool de conexões
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func collectArticles(rows pgx.Rows) ([]models.Article, error) {
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var (
		a           models.Article
		status      string
		publishedAt *time.Time
		tags        []string
	)

	err := row.Scan(
		&a.ID,
		&a.CategoryID,
		&a.Title,
		&a.Summary,
		&a.Slug,
		&status,
		&publishedAt,
		&a.ViewCount,
		&tags,
	)
	if err != nil {
		return nil, err
	}

	a.Status = models.ArticleStatus(status)
	a.PublishedAt = publishedAt
	a.Tags = tags

	return &a, nil
}
