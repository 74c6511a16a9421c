package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-related-articles/internal/logging"
	"github.com/prefeitura-rio/app-related-articles/internal/metrics"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerConfig configura o circuit breaker do cache
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
	OpTimeout        time.Duration
}

// BreakerCache protege um backend de cache remoto: após falhas consecutivas o circuito
// abre e as operações falham imediatamente com ErrUnavailable, sem esperar timeouts.
type BreakerCache struct {
	next      Cache
	cb        *gobreaker.CircuitBreaker[any]
	opTimeout time.Duration
}

// NewBreakerCache envolve next com um circuit breaker
func NewBreakerCache(next Cache, cfg BreakerConfig) *BreakerCache {
	if cfg.Name == "" {
		cfg.Name = "recommendation-cache"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 500 * time.Millisecond
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.As(err, new(*abandonedError))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CacheBreakerState.Set(float64(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker do cache mudou de estado")
		},
	}

	return &BreakerCache{
		next:      next,
		cb:        gobreaker.NewCircuitBreaker[any](settings),
		opTimeout: cfg.OpTimeout,
	}
}

type getResult struct {
	result *models.RecommendationResult
	found  bool
}

func (b *BreakerCache) Get(ctx context.Context, sourceID string) (*models.RecommendationResult, bool, error) {
	out, err := b.execute(ctx, func(ctx context.Context) (any, error) {
		result, found, err := b.next.Get(ctx, sourceID)
		return getResult{result: result, found: found}, err
	})
	if err != nil {
		return nil, false, err
	}
	res := out.(getResult)
	return res.result, res.found, nil
}

func (b *BreakerCache) Put(ctx context.Context, sourceID string, result *models.RecommendationResult, ttl time.Duration) error {
	_, err := b.execute(ctx, func(ctx context.Context) (any, error) {
		return nil, b.next.Put(ctx, sourceID, result, ttl)
	})
	return err
}

func (b *BreakerCache) Invalidate(ctx context.Context, sourceID string) error {
	_, err := b.execute(ctx, func(ctx context.Context) (any, error) {
		return nil, b.next.Invalidate(ctx, sourceID)
	})
	return err
}

func (b *BreakerCache) InvalidateAll(ctx context.Context) error {
	_, err := b.execute(ctx, func(ctx context.Context) (any, error) {
		return nil, b.next.InvalidateAll(ctx)
	})
	return err
}

// State retorna o estado atual do circuito (closed, half-open, open)
func (b *BreakerCache) State() string {
	return b.cb.State().String()
}

func (b *BreakerCache) Close() error {
	return b.next.Close()
}

// abandonedError marca operações interrompidas pelo contexto de quem chamou.
// Não contam como falha do backend; o estouro de opTimeout continua contando.
type abandonedError struct {
	err error
}

func (e *abandonedError) Error() string { return e.err.Error() }
func (e *abandonedError) Unwrap() error { return e.err }

func (b *BreakerCache) execute(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := b.cb.Execute(func() (any, error) {
		opCtx, cancel := context.WithTimeout(ctx, b.opTimeout)
		defer cancel()

		out, err := fn(opCtx)
		if err != nil && ctx.Err() != nil {
			return nil, &abandonedError{err: ctx.Err()}
		}
		return out, err
	})
	if err != nil {
		var abandoned *abandonedError
		if errors.As(err, &abandoned) {
			return nil, abandoned.err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return out, nil
}
