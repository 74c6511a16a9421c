package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InternalTokenHeader carrega o segredo compartilhado com o serviço de artigos
const InternalTokenHeader = "X-Internal-Token"

// InternalToken protege rotas internas com um token compartilhado.
// Com token vazio a verificação é desativada (ambiente local).
func InternalToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(InternalTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token interno inválido"})
			c.Abort()
			return
		}

		c.Next()
	}
}
