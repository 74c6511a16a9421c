package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prefeitura-rio/app-related-articles/internal/logging"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend"
)

// Recommender é o contrato de leitura consumido pelo handler
type Recommender interface {
	Lookup(ctx context.Context, id string) (*models.RecommendationResult, bool, error)
}

// ErrorResponse é o corpo padrão de erro da API
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// articleIDRule valida o ID recebido na rota
const articleIDRule = "required,max=128,printascii"

// RelatedHandler expõe as recomendações de artigos relacionados
type RelatedHandler struct {
	recommender Recommender
	validator   *validator.Validate
}

// NewRelatedHandler cria um novo handler de artigos relacionados
func NewRelatedHandler(recommender Recommender) *RelatedHandler {
	return &RelatedHandler{
		recommender: recommender,
		validator:   validator.New(),
	}
}

// GetRelated godoc
// @Summary Artigos relacionados
// @Description Retorna de 3 a 6 artigos relacionados ao artigo informado, ranqueados pelo score híbrido
// @Description (0.40 × categoria + 0.30 × Jaccard de tags + 0.30 × sobreposição de conteúdo).
// @Description Quando há menos de 3 candidatos a lista é completada com os artigos mais vistos.
// @Description Artigos sem nenhum outro artigo publicado retornam lista vazia (count = 0).
// @Tags related
// @Produce json
// @Param id path string true "ID do artigo fonte" example("8f14e45f")
// @Success 200 {object} models.RelatedArticlesResponse
// @Failure 400 {object} ErrorResponse "ID inválido"
// @Failure 404 {object} ErrorResponse "Artigo não encontrado ou não publicado"
// @Failure 503 {object} ErrorResponse "Store de artigos indisponível (retryable)"
// @Router /api/v1/articles/{id}/related [get]
func (h *RelatedHandler) GetRelated(c *gin.Context) {
	id := c.Param("id")
	if err := h.validator.Var(id, articleIDRule); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ID de artigo inválido"})
		return
	}

	result, cached, err := h.recommender.Lookup(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrArticleNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Artigo não encontrado"})
		case errors.Is(err, recommend.ErrStoreUnavailable):
			logging.Ctx(c.Request.Context()).Error().Err(err).Str("source_id", id).Msg("store indisponível ao calcular recomendações")
			c.Header("Retry-After", "5")
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Serviço temporariamente indisponível", Retryable: true})
		default:
			logging.Ctx(c.Request.Context()).Error().Err(err).Str("source_id", id).Msg("erro ao calcular recomendações")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Erro interno"})
		}
		return
	}

	articles := make([]models.RelatedArticle, 0, len(result.Articles))
	for _, a := range result.Articles {
		articles = append(articles, models.ToRelatedArticle(a))
	}

	c.JSON(http.StatusOK, models.RelatedArticlesResponse{
		Data: models.RelatedArticlesData{
			Articles: articles,
			Count:    result.Count,
		},
		Meta: models.RecommendationMeta{
			Algorithm: recommend.Algorithm,
			Weights:   recommend.Weights(),
			Cached:    cached,
		},
	})
}
