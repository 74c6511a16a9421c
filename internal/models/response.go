package models

// RelatedArticlesResponse é a resposta do endpoint de artigos relacionados
type RelatedArticlesResponse struct {
	Data RelatedArticlesData `json:"data"`
	Meta RecommendationMeta  `json:"meta"`
}

// RelatedArticlesData contém a lista de artigos relacionados
type RelatedArticlesData struct {
	Articles []RelatedArticle `json:"articles"`
	Count    int              `json:"count"`
}

// RelatedArticle é a projeção pública de um artigo recomendado
type RelatedArticle struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	Slug        string   `json:"slug,omitempty"`
	CategoryID  string   `json:"category_id,omitempty"`
	Tags        []string `json:"tags"`
	PublishedAt int64    `json:"published_at,omitempty"`
	ViewCount   int64    `json:"view_count"`
}

// RecommendationMeta expõe o algoritmo e os pesos usados, para observabilidade
type RecommendationMeta struct {
	Algorithm string                `json:"algorithm"`
	Weights   RecommendationWeights `json:"weights"`
	Cached    bool                  `json:"cached"`
}

// RecommendationWeights ecoa as constantes do score híbrido
type RecommendationWeights struct {
	Category float64 `json:"category"`
	Tags     float64 `json:"tags"`
	Content  float64 `json:"content"`
}

// ToRelatedArticle projeta um Article para a resposta pública
func ToRelatedArticle(a Article) RelatedArticle {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	related := RelatedArticle{
		ID:         a.ID,
		Title:      a.Title,
		Summary:    a.Summary,
		Slug:       a.Slug,
		CategoryID: a.CategoryID,
		Tags:       tags,
		ViewCount:  a.ViewCount,
	}
	if a.PublishedAt != nil {
		related.PublishedAt = a.PublishedAt.Unix()
	}
	return related
}
