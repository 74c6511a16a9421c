package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prefeitura-rio/app-related-articles/internal/migration/schemas"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"
	"github.com/typesense/typesense-go/v3/typesense/api/pointer"
)

// DefaultArticlesCollection é o nome padrão da collection de artigos no Typesense
const DefaultArticlesCollection = "articles"

// idsPageSize é o máximo de hits por página aceito pelo Typesense
const idsPageSize = 250

// TypesenseStore lê artigos de uma collection do Typesense
type TypesenseStore struct {
	client        *typesense.Client
	collection    string
	schemaVersion string
}

// typesenseArticle é o formato do documento indexado
type typesenseArticle struct {
	ID          string   `json:"id"`
	CategoryID  string   `json:"category_id"`
	Tags        []string `json:"tags"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Slug        string   `json:"slug"`
	Status      string   `json:"status"`
	PublishedAt int64    `json:"published_at"`
	ViewCount   int64    `json:"view_count"`
}

// NewTypesenseStore cria um store para a collection informada
func NewTypesenseStore(serverURL, apiKey, collection string, timeout time.Duration) *TypesenseStore {
	if collection == "" {
		collection = DefaultArticlesCollection
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := typesense.NewClient(
		typesense.WithServer(serverURL),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(timeout),
	)

	return &TypesenseStore{
		client:     client,
		collection: collection,
	}
}

// GetArticle busca o documento pelo ID
func (s *TypesenseStore) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	document, err := s.client.Collection(s.collection).Document(id).Retrieve(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("erro ao buscar artigo no Typesense: %w", err)
	}

	article, err := decodeDocument(document)
	if err != nil {
		return nil, err
	}

	if err := validateArticle(article); err != nil {
		return nil, err
	}
	return article, nil
}

// FindCandidates busca artigos elegíveis com mesma categoria ou tags em comum
func (s *TypesenseStore) FindCandidates(ctx context.Context, source models.Article, now time.Time, limit int) ([]models.Article, error) {
	related := make([]string, 0, 2)
	if source.CategoryID != "" {
		related = append(related, fmt.Sprintf("category_id:=%s", quote(source.CategoryID)))
	}
	if len(source.Tags) > 0 {
		related = append(related, fmt.Sprintf("tags:=%s", quoteList(source.Tags)))
	}
	if len(related) == 0 {
		return []models.Article{}, nil
	}

	filterBy := fmt.Sprintf("%s && id:!=%s && (%s)",
		eligibleFilter(now),
		quote(source.ID),
		strings.Join(related, " || "),
	)

	articles, err := s.search(ctx, filterBy, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar candidatos: %w", err)
	}

	return filterEligible(articles, now, excludeSet(source.ID)), nil
}

// FindPopular busca os artigos elegíveis mais vistos
func (s *TypesenseStore) FindPopular(ctx context.Context, exclude []string, now time.Time, limit int) ([]models.Article, error) {
	filterBy := eligibleFilter(now)
	if len(exclude) > 0 {
		filterBy += fmt.Sprintf(" && id:!=%s", quoteList(exclude))
	}

	articles, err := s.search(ctx, filterBy, popularFetchLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar populares: %w", err)
	}

	return truncateArticles(filterEligible(articles, now, excludeSet(exclude...)), limit), nil
}

// Ping verifica a saúde do Typesense
func (s *TypesenseStore) Ping(ctx context.Context) error {
	healthy, err := s.client.Health(ctx, 2*time.Second)
	if err != nil {
		return err
	}
	if !healthy {
		return fmt.Errorf("typesense não está saudável")
	}
	return nil
}

// Close não tem recursos a liberar; o client HTTP é compartilhado
func (s *TypesenseStore) Close() error {
	return nil
}

// WithSchemaVersion fixa a versão do schema usada por EnsureCollection; vazio usa a atual
func (s *TypesenseStore) WithSchemaVersion(version string) *TypesenseStore {
	s.schemaVersion = version
	return s
}

// EnsureCollection cria a collection de artigos caso ainda não exista
func (s *TypesenseStore) EnsureCollection(ctx context.Context) error {
	definition, err := s.schemaDefinition()
	if err != nil {
		return err
	}

	_, err = s.client.Collection(s.collection).Retrieve(ctx)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("erro ao verificar collection %s: %w", s.collection, err)
	}

	schema := definition.CollectionSchema(s.collection)

	if _, err := s.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("erro ao criar collection %s: %w", s.collection, err)
	}
	return nil
}

func (s *TypesenseStore) schemaDefinition() (*schemas.SchemaDefinition, error) {
	registry := schemas.NewRegistry()
	if s.schemaVersion == "" {
		return registry.Current(), nil
	}

	definition, err := registry.GetSchema(s.schemaVersion)
	if err != nil {
		return nil, fmt.Errorf("%w (disponíveis: %s)", err, strings.Join(registry.ListVersions(), ", "))
	}
	return definition, nil
}

// UpsertArticle indexa (ou substitui) um artigo na collection
func (s *TypesenseStore) UpsertArticle(ctx context.Context, article models.Article) error {
	_, err := s.client.Collection(s.collection).Documents().Upsert(ctx, encodeDocument(article), &api.DocumentIndexParameters{})
	if err != nil {
		return fmt.Errorf("erro ao indexar artigo %s: %w", article.ID, err)
	}
	return nil
}

// DeleteArticle remove o documento da collection; documento inexistente não é erro
func (s *TypesenseStore) DeleteArticle(ctx context.Context, id string) error {
	_, err := s.client.Collection(s.collection).Document(id).Delete(ctx)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("erro ao remover artigo %s: %w", id, err)
	}
	return nil
}

// ListArticleIDs percorre a collection inteira retornando apenas os IDs indexados
func (s *TypesenseStore) ListArticleIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	for page := 1; ; page++ {
		params := &api.SearchCollectionParams{
			Q:             pointer.String("*"),
			IncludeFields: pointer.String("id"),
			SortBy:        pointer.String("view_count:desc"),
			Page:          pointer.Int(page),
			PerPage:       pointer.Int(idsPageSize),
		}

		result, err := s.client.Collection(s.collection).Documents().Search(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("erro ao listar IDs indexados: %w", err)
		}
		if result.Hits == nil || len(*result.Hits) == 0 {
			return ids, nil
		}

		for _, hit := range *result.Hits {
			if hit.Document == nil {
				continue
			}
			if id, ok := (*hit.Document)["id"].(string); ok && id != "" {
				ids = append(ids, id)
			}
		}

		if len(*result.Hits) < idsPageSize {
			return ids, nil
		}
	}
}

func (s *TypesenseStore) search(ctx context.Context, filterBy string, limit int) ([]models.Article, error) {
	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		FilterBy: pointer.String(filterBy),
		SortBy:   pointer.String("view_count:desc"),
		Page:     pointer.Int(1),
		PerPage:  pointer.Int(limit),
	}

	result, err := s.client.Collection(s.collection).Documents().Search(ctx, params)
	if err != nil {
		return nil, err
	}

	articles := make([]models.Article, 0)
	if result.Hits == nil {
		return articles, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		article, err := decodeDocument(*hit.Document)
		if err != nil {
			continue
		}
		articles = append(articles, *article)
	}

	return articles, nil
}

func decodeDocument(document map[string]interface{}) (*models.Article, error) {
	raw, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar documento: %w", err)
	}

	var doc typesenseArticle
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArticle, err)
	}

	article := &models.Article{
		ID:         doc.ID,
		CategoryID: doc.CategoryID,
		Tags:       doc.Tags,
		Title:      doc.Title,
		Summary:    doc.Summary,
		Slug:       doc.Slug,
		Status:     models.ArticleStatus(doc.Status),
		ViewCount:  doc.ViewCount,
	}
	if doc.PublishedAt > 0 {
		publishedAt := time.Unix(doc.PublishedAt, 0).UTC()
		article.PublishedAt = &publishedAt
	}

	return article, nil
}

func encodeDocument(article models.Article) typesenseArticle {
	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := typesenseArticle{
		ID:         article.ID,
		CategoryID: article.CategoryID,
		Tags:       tags,
		Title:      article.Title,
		Summary:    article.Summary,
		Slug:       article.Slug,
		Status:     string(article.Status),
		ViewCount:  article.ViewCount,
	}
	if article.PublishedAt != nil {
		doc.PublishedAt = article.PublishedAt.Unix()
	}
	return doc
}

func eligibleFilter(now time.Time) string {
	return fmt.Sprintf("status:=%s && published_at:>0 && published_at:<=%d", quote(string(models.ArticleStatusPublished)), now.Unix())
}

// quote protege valores de filtro com crase (sintaxe do filter_by)
func quote(value string) string {
	return "`" + strings.ReplaceAll(value, "`", "") + "`"
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "404") || strings.Contains(msg, "Not found") || strings.Contains(msg, "Not Found")
}
