package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-related-articles/internal/recommend/cache"
)

// Pinger é implementado pelo store de artigos
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerState é implementado pelo cache protegido por circuit breaker
type BreakerState interface {
	State() string
}

// HealthHandler gerencia os endpoints de health check
type HealthHandler struct {
	store    Pinger
	recCache cache.Cache
}

// NewHealthHandler cria um novo handler de health check. cache pode ser nil.
func NewHealthHandler(store Pinger, recCache cache.Cache) *HealthHandler {
	return &HealthHandler{
		store:    store,
		recCache: recCache,
	}
}

// HealthResponse representa a resposta do health check
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Liveness godoc
// @Summary Liveness probe endpoint
// @Description Verifica se a aplicação está viva (sem checagem de dependências externas)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /liveness [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// Readiness godoc
// @Summary Readiness probe endpoint
// @Description Verifica se a aplicação está pronta para receber tráfego. Apenas o store de artigos é obrigatório;
// @Description o estado do cache é informado mas nunca torna a aplicação indisponível.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readiness [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ready",
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	if err := h.store.Ping(ctx); err != nil {
		response.Checks["article_store"] = "failed"
		response.Status = "not_ready"
		response.Error = "Store de artigos indisponível"
	} else {
		response.Checks["article_store"] = "ok"
	}

	response.Checks["cache"] = h.cacheStatus()

	statusCode := http.StatusOK
	if response.Status == "not_ready" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

func (h *HealthHandler) cacheStatus() string {
	if h.recCache == nil {
		return "disabled"
	}
	if b, ok := h.recCache.(BreakerState); ok {
		return b.State()
	}
	return "ok"
}
