package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"EndoDigest/internal/compose"
	"EndoDigest/internal/config"
	"EndoDigest/internal/curation"
	"EndoDigest/internal/infrastructure/history"
	"EndoDigest/internal/infrastructure/journalfeed"
	"EndoDigest/internal/infrastructure/llm"
	"EndoDigest/internal/infrastructure/pubmed"
	"EndoDigest/internal/infrastructure/twitter"
	"EndoDigest/internal/logging"
	"EndoDigest/internal/ranking"
	"EndoDigest/internal/sources"
	"EndoDigest/internal/theme"
	"EndoDigest/internal/usecase"
)

// Application wires configuration into one runnable publishing cycle. All
// collaborators are constructed once here and passed down explicitly.
type Application struct {
	cfg      config.Config
	store    *history.Store
	pipeline *usecase.Pipeline
}

// New builds the full dependency graph for a cycle.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	themes, err := theme.NewTable(theme.Default(), cfg.Theme.Timezone)
	if err != nil {
		return nil, fmt.Errorf("build theme table: %w", err)
	}

	table, err := ranking.Load(cfg.Ranking.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("load ranking table: %w", err)
	}
	baseLogger.Info("ranking table loaded", "journals", table.Len())

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	registry := sources.NewRegistry()
	registry.Register(pubmed.NewClient(cfg.PubMed, nil, baseLogger.With("component", "source.pubmed")))
	registry.Register(journalfeed.NewScanner(cfg.Feed, store, nil, baseLogger.With("component", "source.journalfeed")))

	ordered, err := registry.ResolveAll(cfg.Pipeline.Sources)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("resolve sources: %w", err)
	}

	policy, err := curation.PolicyFromName(cfg.Pipeline.SelectionPolicy)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("resolve selection policy: %w", err)
	}

	layout, err := compose.ParseLayout(cfg.Pipeline.Layout)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("resolve layout: %w", err)
	}
	prefixDay, err := compose.ParseWeekday(cfg.Pipeline.ThreadPrefixDay)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("resolve thread prefix day: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Themes:     themes,
		Sources:    ordered,
		Filter:     curation.NewQualityFilter(table, cfg.Ranking.DomainTerm, cfg.Ranking.PriorityVenue),
		Policy:     policy,
		History:    store,
		Summarizer: llm.NewSummaryClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
		Composer:   compose.New(layout, cfg.Pipeline.ThreadPrefix, prefixDay),
		Publisher: twitter.NewClient(twitter.Credentials{
			ConsumerKey:    cfg.Twitter.ConsumerKey,
			ConsumerSecret: cfg.Twitter.ConsumerSecret,
			AccessToken:    cfg.Twitter.AccessToken,
			AccessSecret:   cfg.Twitter.AccessSecret,
		}),
		Preview:        os.Stdout,
		Logger:         baseLogger.With("component", "pipeline"),
		MaxPosts:       cfg.Pipeline.MaxPosts,
		PoolMultiplier: cfg.Pipeline.PoolMultiplier,
		DailyQuota:     cfg.Pipeline.DailyQuota,
		DryRun:         cfg.Pipeline.DryRun,
	})

	return &Application{cfg: cfg, store: store, pipeline: pipeline}, nil
}

// Run executes a single publishing cycle and releases held resources.
func (a *Application) Run(ctx context.Context) error {
	defer a.store.Close()
	return a.pipeline.RunCycle(ctx, time.Now())
}
