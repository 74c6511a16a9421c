package models

import "time"

// ArticleStatus define o estado de publicação de um artigo
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
)

// Article representa os campos de um artigo consumidos pelo motor de recomendação.
// É populado diretamente pela consulta ao store e validado uma única vez na fronteira do store.
type Article struct {
	ID          string        `json:"id" validate:"required"`
	CategoryID  string        `json:"category_id"`
	Tags        []string      `json:"tags"`
	Title       string        `json:"title" validate:"required"`
	Summary     string        `json:"summary,omitempty"`
	Slug        string        `json:"slug,omitempty"`
	Status      ArticleStatus `json:"status" validate:"required,oneof=draft published archived"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	ViewCount   int64         `json:"view_count" validate:"gte=0"`
}

// IsEligible indica se o artigo pode ser fonte ou candidato de recomendação:
// publicado e com data de publicação não futura.
func (a *Article) IsEligible(now time.Time) bool {
	if a.Status != ArticleStatusPublished || a.PublishedAt == nil {
		return false
	}
	return !a.PublishedAt.After(now)
}

// ScoredCandidate é um candidato com o score híbrido calculado. Nunca é persistido.
type ScoredCandidate struct {
	Article Article `json:"article"`
	Score   float64 `json:"score"`
}

// RecommendationResult é a unidade armazenada em cache: lista ordenada de artigos relacionados
type RecommendationResult struct {
	Articles    []Article `json:"articles"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewRecommendationResult monta um resultado garantindo que Count acompanhe a lista
func NewRecommendationResult(articles []Article, generatedAt time.Time) *RecommendationResult {
	if articles == nil {
		articles = []Article{}
	}
	return &RecommendationResult{
		Articles:    articles,
		Count:       len(articles),
		GeneratedAt: generatedAt,
	}
}

// ArticleEventType identifica o tipo de mutação notificada pelo serviço de artigos
type ArticleEventType string

const (
	ArticleEventCreated     ArticleEventType = "created"
	ArticleEventUpdated     ArticleEventType = "updated"
	ArticleEventDeleted     ArticleEventType = "deleted"
	ArticleEventPublished   ArticleEventType = "published"
	ArticleEventUnpublished ArticleEventType = "unpublished"

	// ArticleEventPublishStateChanged é uma mudança de publicação sem direção conhecida
	ArticleEventPublishStateChanged ArticleEventType = "publish_state_changed"
)

// ArticleEventRequest é o corpo do endpoint interno de eventos de mutação
type ArticleEventRequest struct {
	Type ArticleEventType `json:"type" validate:"required,oneof=created updated deleted published unpublished"`
}
