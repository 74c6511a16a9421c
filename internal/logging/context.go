package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// NewRequestID gera um identificador de requisição
func NewRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID associa um request id ao contexto
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extrai o request id do contexto, se houver
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx retorna o logger global enriquecido com o request id do contexto
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := Logger()
	if ctx != nil {
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			logger = logger.With().Str("request_id", requestID).Logger()
		}
	}
	return &logger
}
