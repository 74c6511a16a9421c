package recommend

import (
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/ranking"
)

// Limites e TTL das recomendações. Não são configuráveis em runtime.
const (
	MinResults        = 3
	MaxResults        = 6
	CacheTTL          = 3600 * time.Second
	CandidatePoolSize = 50

	// Algorithm é ecoado no campo meta.algorithm da resposta
	Algorithm = "hybrid"
)

// Weights retorna os pesos do score híbrido para exibição na resposta
func Weights() models.RecommendationWeights {
	return models.RecommendationWeights{
		Category: ranking.CategoryWeight,
		Tags:     ranking.TagWeight,
		Content:  ranking.ContentWeight,
	}
}
