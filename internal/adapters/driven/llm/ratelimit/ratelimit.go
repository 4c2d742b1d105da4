// Package ratelimit throttles an LLM service to a provider's request quota.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Defaults for Config.
const (
	DefaultBurst   = 2
	DefaultBackoff = 10 * time.Second
)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerMinute is the sustained rate. Zero or less disables limiting.
	RequestsPerMinute int

	// Burst is the number of requests allowed back to back (default: 2).
	Burst int

	// Backoff is how long to hold requests after the provider reports a
	// quota error (default: 10s).
	Backoff time.Duration
}

// LLMService wraps another LLMService with a token bucket. Ping and Close
// pass through unthrottled.
type LLMService struct {
	next    driven.LLMService
	limiter *rate.Limiter
	backoff time.Duration

	mu      sync.Mutex
	retryAt time.Time
	now     func() time.Time
}

// Wrap returns next throttled to cfg. A non-positive rate returns next unchanged.
func Wrap(next driven.LLMService, cfg Config) driven.LLMService {
	if cfg.RequestsPerMinute <= 0 {
		return next
	}
	return New(next, cfg)
}

// New creates a throttled LLM service.
func New(next driven.LLMService, cfg Config) *LLMService {
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	perRequest := time.Minute / time.Duration(max(cfg.RequestsPerMinute, 1))
	return &LLMService{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(perRequest), cfg.Burst),
		backoff: cfg.Backoff,
		now:     time.Now,
	}
}

// Generate waits for a token, then delegates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	out, err := s.next.Generate(ctx, prompt, opts)
	s.record(err)
	return out, err
}

// Chat waits for a token, then delegates.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	out, err := s.next.Chat(ctx, messages, opts)
	s.record(err)
	return out, err
}

// wait blocks for any backoff period, then for the token bucket.
func (s *LLMService) wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if delay := retryAt.Sub(s.now()); delay > 0 {
		logger.Debug("Rate limited, holding request for %s", delay.Round(time.Millisecond))
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return s.limiter.Wait(ctx)
}

func (s *LLMService) record(err error) {
	if !errors.Is(err, domain.ErrRateLimited) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryAt = s.now().Add(s.backoff)
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string {
	return s.next.ModelName()
}

// Ping delegates without consuming a token.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.next.Close()
}
