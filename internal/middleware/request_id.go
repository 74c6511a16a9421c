package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-related-articles/internal/logging"
)

// RequestIDHeader é o header de correlação aceito e devolvido pela API
const RequestIDHeader = "X-Request-ID"

// RequestID propaga (ou gera) o ID da requisição no contexto e no header de resposta
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = logging.NewRequestID()
		}

		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

// AccessLog registra uma linha estruturada por requisição
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := logging.Ctx(c.Request.Context()).Info()
		if status >= 500 {
			event = logging.Ctx(c.Request.Context()).Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("requisição HTTP")
	}
}
