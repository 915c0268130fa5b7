package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/MananiDennis/alumniSystem/internal/acquire"
	"github.com/MananiDennis/alumniSystem/internal/extract"
	"github.com/MananiDennis/alumniSystem/internal/merge"
	"github.com/MananiDennis/alumniSystem/internal/query"
	"github.com/MananiDennis/alumniSystem/internal/resilience"
	"github.com/MananiDennis/alumniSystem/internal/schedule"
	"github.com/MananiDennis/alumniSystem/internal/search"
	"github.com/MananiDennis/alumniSystem/internal/search/provider"
	"github.com/MananiDennis/alumniSystem/internal/stats"
	"github.com/MananiDennis/alumniSystem/internal/store"
	"github.com/MananiDennis/alumniSystem/internal/update"
	anthropicpkg "github.com/MananiDennis/alumniSystem/pkg/anthropic"
	"github.com/MananiDennis/alumniSystem/pkg/duckduckgo"
)

// pipelineEnv holds the initialized store, clients and services shared by
// the acquire/update/serve commands.
type pipelineEnv struct {
	Store       store.Store
	Extractor   *extract.Extractor
	Coordinator *acquire.Coordinator
	Scheduler   *schedule.Scheduler
	Stats       *stats.Service
	Updater     *update.Service
	Query       *query.Service
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "alumni.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func scheduleThresholds() schedule.Thresholds {
	return schedule.Thresholds{
		ImmediateAge:        time.Duration(cfg.Schedule.ImmediateAgeDays) * 24 * time.Hour,
		ImmediateConfidence: cfg.Schedule.ImmediateConfidence,
		ShouldAge:           time.Duration(cfg.Schedule.ShouldAgeDays) * 24 * time.Hour,
		ShouldConfidence:    cfg.Schedule.ShouldConfidence,
		CanAge:              time.Duration(cfg.Schedule.CanAgeDays) * 24 * time.Hour,
	}
}

// initEnv sets up the store, search providers, extraction client and all
// services. Callers should defer env.Close().
func initEnv(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	retry := resilience.DefaultRetryConfig()
	if cfg.Search.Retries > 0 {
		retry.MaxAttempts = cfg.Search.Retries
	}

	chain := provider.NewChain(
		provider.NewDuckDuckGo(duckduckgo.NewClient()),
		provider.NewSerper(cfg.Serper.Key, cfg.Serper.Country),
		provider.NewDirectSite(provider.DefaultSiteProbes()),
	)

	searchCfg := search.DefaultConfig()
	searchCfg.Retry = retry
	if cfg.Search.MaxSnippets > 0 {
		searchCfg.MaxSnippets = cfg.Search.MaxSnippets
	}
	if cfg.Search.CallTimeoutSecs > 0 {
		searchCfg.CallTimeout = time.Duration(cfg.Search.CallTimeoutSecs) * time.Second
	}
	if cfg.Search.RatePerSecond > 0 {
		searchCfg.RatePerSecond = cfg.Search.RatePerSecond
	}
	orchestrator := search.New(searchCfg, chain)

	var aiClient anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		aiClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
	}
	extractor := extract.New(extract.Config{
		Model:           cfg.Anthropic.Model,
		MaxTokens:       cfg.Anthropic.MaxTokens,
		Temperature:     cfg.Extract.Temperature,
		ConfidenceFloor: cfg.Extract.ConfidenceFloor,
		Retry:           retry,
	}, aiClient)

	engine := merge.NewEngine(st)

	coordinator := acquire.New(acquire.Config{
		Concurrency: cfg.Batch.MaxConcurrentNames,
		NameBudget:  time.Duration(cfg.Batch.NameBudgetSecs) * time.Second,
	}, orchestrator, extractor, engine, nil)

	scheduler := schedule.New(st, scheduleThresholds())

	return &pipelineEnv{
		Store:       st,
		Extractor:   extractor,
		Coordinator: coordinator,
		Scheduler:   scheduler,
		Stats:       stats.New(st),
		Updater:     update.New(scheduler, coordinator),
		Query: query.New(query.Config{
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
			Retry:     retry,
		}, aiClient, st),
	}, nil
}
