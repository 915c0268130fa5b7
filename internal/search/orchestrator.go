// Package search turns a person's name into a deduplicated snippet set by
// fanning a bounded query list across an ordered provider chain with
// per-provider retry, backoff, and silent fallback.
package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/resilience"
	"github.com/MananiDennis/alumniSystem/internal/search/provider"
)

// Config tunes orchestrator behavior.
type Config struct {
	// MaxSnippets caps the returned snippet list. Default: 10.
	MaxSnippets int

	// CallTimeout bounds each individual provider call. Default: 20s.
	CallTimeout time.Duration

	// Retry controls backoff on rate-limit signals.
	Retry resilience.RetryConfig

	// RatePerSecond throttles provider calls across ALL in-flight names.
	// Zero disables throttling.
	RatePerSecond float64
}

// DefaultConfig returns the standard orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		MaxSnippets:   10,
		CallTimeout:   20 * time.Second,
		Retry:         resilience.DefaultRetryConfig(),
		RatePerSecond: 2,
	}
}

// Orchestrator executes query variants against the provider chain. A
// provider whose rate-limit retries are exhausted is skipped for the
// remainder of the run; ResetAvailability starts a fresh run.
type Orchestrator struct {
	cfg     Config
	chain   *provider.Chain
	limiter *rate.Limiter

	mu          sync.RWMutex
	unavailable map[model.SearchProvider]bool
}

// New creates an orchestrator over the given provider chain.
func New(cfg Config, chain *provider.Chain) *Orchestrator {
	if cfg.MaxSnippets <= 0 {
		cfg.MaxSnippets = 10
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 20 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &Orchestrator{
		cfg:         cfg,
		chain:       chain,
		limiter:     limiter,
		unavailable: make(map[model.SearchProvider]bool),
	}
}

// ResetAvailability clears per-run provider outage marks. The coordinator
// calls this at the start of each batch.
func (o *Orchestrator) ResetAvailability() {
	o.mu.Lock()
	o.unavailable = make(map[model.SearchProvider]bool)
	o.mu.Unlock()
}

// Search runs every query variant for the request. The first provider
// returning at least one result short-circuits the rest of the chain for
// that query only. An empty result is valid, not an error; the only error
// returned is context cancellation.
func (o *Orchestrator) Search(ctx context.Context, req Request) ([]model.CandidateSnippet, error) {
	log := zap.L().With(zap.String("name", req.Name))

	queries := BuildQueries(req)
	seen := make(map[string]bool)
	var snippets []model.CandidateSnippet

	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return snippets, err
		}

		results := o.runQuery(ctx, query, log)
		for _, s := range results {
			key := s.URL
			if key == "" {
				key = s.Title
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			snippets = append(snippets, s)
		}
	}

	if len(snippets) > o.cfg.MaxSnippets {
		snippets = snippets[:o.cfg.MaxSnippets]
	}

	log.Info("search: collected snippets",
		zap.Int("queries", len(queries)),
		zap.Int("snippets", len(snippets)),
	)
	return snippets, nil
}

// runQuery tries providers in priority order until one yields results.
func (o *Orchestrator) runQuery(ctx context.Context, query string, log *zap.Logger) []model.CandidateSnippet {
	for _, p := range o.chain.Providers() {
		if o.isUnavailable(p.Name()) {
			continue
		}

		results, err := o.callProvider(ctx, p, query)
		if err != nil {
			switch {
			case errors.Is(err, provider.ErrUnavailable):
				o.markUnavailable(p.Name())
				log.Warn("search: provider unavailable, skipping for run",
					zap.String("provider", string(p.Name())),
				)
			case resilience.IsRateLimited(err):
				// Backoff retries already exhausted inside callProvider.
				o.markUnavailable(p.Name())
				log.Warn("search: provider rate limit persisted, skipping for run",
					zap.String("provider", string(p.Name())),
				)
			default:
				log.Debug("search: provider failed for query, trying next",
					zap.String("provider", string(p.Name())),
					zap.String("query", query),
					zap.Error(err),
				)
			}
			continue
		}

		if len(results) > 0 {
			return results
		}
	}
	return nil
}

// callProvider runs a single provider call with shared throttling, a
// per-call timeout, and rate-limit-only retries. No lock is held while
// the call blocks.
func (o *Orchestrator) callProvider(ctx context.Context, p provider.Provider, query string) ([]model.CandidateSnippet, error) {
	retryCfg := o.cfg.Retry
	retryCfg.ShouldRetry = resilience.IsRateLimited
	retryCfg.OnRetry = resilience.RetryLogger(string(p.Name()), "search")

	return resilience.DoVal(ctx, retryCfg, func(ctx context.Context) ([]model.CandidateSnippet, error) {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
		defer cancel()
		return p.Search(callCtx, query)
	})
}

func (o *Orchestrator) isUnavailable(name model.SearchProvider) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.unavailable[name]
}

func (o *Orchestrator) markUnavailable(name model.SearchProvider) {
	o.mu.Lock()
	o.unavailable[name] = true
	o.mu.Unlock()
}
