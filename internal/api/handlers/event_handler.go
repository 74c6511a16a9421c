package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prefeitura-rio/app-related-articles/internal/logging"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
)

// MutationHandler recebe as notificações de mutação de artigos
type MutationHandler interface {
	Handle(event models.ArticleEventType, id string)
}

// EventHandler expõe o endpoint interno usado pelo serviço de artigos
type EventHandler struct {
	coordinator MutationHandler
	validator   *validator.Validate
}

func NewEventHandler(coordinator MutationHandler) *EventHandler {
	return &EventHandler{
		coordinator: coordinator,
		validator:   validator.New(),
	}
}

// EventAcceptedResponse confirma o recebimento do evento
type EventAcceptedResponse struct {
	Status    string                  `json:"status"`
	ArticleID string                  `json:"article_id"`
	Type      models.ArticleEventType `json:"type"`
}

// PostEvent godoc
// @Summary Notifica mutação de artigo
// @Description Chamado pelo serviço de artigos após criar, atualizar, remover, publicar ou despublicar um artigo.
// @Description A invalidação do cache (entrada do artigo + todas as entradas) roda em background:
// @Description a resposta é sempre 202 e falhas de cache nunca são propagadas.
// @Tags internal
// @Accept json
// @Produce json
// @Param id path string true "ID do artigo alterado"
// @Param X-Internal-Token header string false "Token interno (obrigatório quando INTERNAL_API_TOKEN está configurado)"
// @Param event body models.ArticleEventRequest true "Tipo da mutação"
// @Success 202 {object} EventAcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/internal/articles/{id}/events [post]
func (h *EventHandler) PostEvent(c *gin.Context) {
	id := c.Param("id")
	if err := h.validator.Var(id, articleIDRule); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ID de artigo inválido"})
		return
	}

	var request models.ArticleEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Dados inválidos: " + err.Error()})
		return
	}

	if err := h.validator.Struct(request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validação falhou: " + err.Error()})
		return
	}

	h.coordinator.Handle(request.Type, id)

	logging.Ctx(c.Request.Context()).Info().
		Str("article_id", id).
		Str("event", string(request.Type)).
		Msg("evento de mutação recebido")

	c.JSON(http.StatusAccepted, EventAcceptedResponse{
		Status:    "accepted",
		ArticleID: id,
		Type:      request.Type,
	})
}
