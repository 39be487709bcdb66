package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"EndoDigest/internal/compose"
	"EndoDigest/internal/curation"
	"EndoDigest/internal/domain"
	"EndoDigest/internal/ports"
	"EndoDigest/internal/theme"
)

// PipelineDeps wires all driven adapters into the publishing cycle.
type PipelineDeps struct {
	Themes     *theme.Table
	Sources    []ports.ArticleSource
	Filter     *curation.QualityFilter
	Policy     ports.SelectionPolicy
	History    ports.HistoryStore
	Summarizer ports.Summarizer
	Composer   *compose.Composer
	Publisher  ports.Publisher
	Preview    io.Writer
	Logger     *slog.Logger

	MaxPosts       int
	PoolMultiplier int
	DailyQuota     int
	DryRun         bool
}

// Pipeline runs one discovery-to-publish cycle per invocation. Selected
// articles are processed strictly in order, one fully (summarize → compose →
// publish → record) before the next begins.
type Pipeline struct {
	themes     *theme.Table
	sources    []ports.ArticleSource
	filter     *curation.QualityFilter
	policy     ports.SelectionPolicy
	history    ports.HistoryStore
	summarizer ports.Summarizer
	composer   *compose.Composer
	publisher  ports.Publisher
	preview    io.Writer
	logger     *slog.Logger

	maxPosts       int
	poolMultiplier int
	dailyQuota     int
	dryRun         bool
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	maxPosts := deps.MaxPosts
	if maxPosts <= 0 {
		maxPosts = 1
	}
	poolMultiplier := deps.PoolMultiplier
	if poolMultiplier <= 0 {
		poolMultiplier = 5
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	preview := deps.Preview
	if preview == nil {
		preview = io.Discard
	}

	return &Pipeline{
		themes:         deps.Themes,
		sources:        deps.Sources,
		filter:         deps.Filter,
		policy:         deps.Policy,
		history:        deps.History,
		summarizer:     deps.Summarizer,
		composer:       deps.Composer,
		publisher:      deps.Publisher,
		preview:        preview,
		logger:         logger,
		maxPosts:       maxPosts,
		poolMultiplier: poolMultiplier,
		dailyQuota:     deps.DailyQuota,
		dryRun:         deps.DryRun,
	}
}

// RunCycle executes one full cycle for the given wall-clock time.
func (p *Pipeline) RunCycle(ctx context.Context, now time.Time) error {
	th := p.themes.ForDate(now)
	p.logger.Info("cycle start", "theme", th.Label, "dry_run", p.dryRun)

	keys, err := p.history.Keys(ctx)
	if err != nil {
		return fmt.Errorf("load history keys: %w", err)
	}

	candidates, err := p.fetch(ctx, th)
	if err != nil {
		return err
	}

	filtered := p.filter.Apply(candidates)
	fresh := curation.DropPublished(filtered, keys)
	p.logger.Info("candidates filtered",
		"raw", len(candidates), "admitted", len(filtered), "fresh", len(fresh))

	quota, err := p.remainingQuota(ctx, now)
	if err != nil {
		return err
	}
	if quota <= 0 {
		p.logger.Info("daily quota reached, nothing to do")
		return nil
	}

	selected := p.policy.Select(fresh, quota)
	if len(selected) == 0 {
		p.logger.Info("no candidates survived filtering")
		return nil
	}

	// Reserve every selected key before any external call, so a failed or
	// interrupted publish never re-selects the same article later.
	for _, article := range selected {
		entry := domain.HistoryEntry{
			Link:     strings.ToLower(article.Link),
			Title:    article.Title,
			Theme:    th.Label,
			PostedAt: now,
		}
		if err := p.history.Reserve(ctx, entry); err != nil {
			return fmt.Errorf("reserve %s: %w", article.Link, err)
		}
	}

	day := p.themes.Weekday(now)
	for _, article := range selected {
		p.processArticle(ctx, article, th, day)
	}

	return nil
}

// fetch tries each source in configured order and uses the first successful
// result; a transport error on one source falls through to the next.
func (p *Pipeline) fetch(ctx context.Context, th domain.Theme) ([]domain.CandidateArticle, error) {
	limit := p.maxPosts * p.poolMultiplier

	var lastErr error
	for _, src := range p.sources {
		candidates, err := src.Fetch(ctx, th, limit)
		if err != nil {
			p.logger.Warn("source fetch failed", "source", src.Name(), "error", err)
			lastErr = err
			continue
		}
		p.logger.Info("source fetch done", "source", src.Name(), "candidates", len(candidates))
		return candidates, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all sources failed: %w", lastErr)
	}
	return nil, nil
}

func (p *Pipeline) remainingQuota(ctx context.Context, now time.Time) (int, error) {
	if p.dailyQuota <= 0 {
		return p.maxPosts, nil
	}

	local := now.In(p.themes.Location())
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())

	posted, err := p.history.CountPostedSince(ctx, startOfDay)
	if err != nil {
		return 0, fmt.Errorf("count posted today: %w", err)
	}

	remaining := p.dailyQuota - posted
	if remaining > p.maxPosts {
		remaining = p.maxPosts
	}
	return remaining, nil
}

// processArticle handles one selected article end to end. Summarization and
// publish failures are contained here; they never stop the remaining items.
func (p *Pipeline) processArticle(ctx context.Context, article domain.FilteredArticle, th domain.Theme, day time.Weekday) {
	summary, err := p.summarizer.Summarize(ctx, article.Title, article.Abstract)
	if err != nil {
		p.logger.Warn("summarization failed, using fallback", "title", article.Title, "error", err)
		summary = domain.FallbackSummary()
	}

	post := p.composer.Compose(article, summary, th.Hashtags, day)
	p.printPreview(post)

	if p.dryRun {
		return
	}

	id, err := p.publisher.Publish(ctx, post)
	if err != nil {
		// The history key is already reserved, so the article will not be
		// reattempted even though it may never have gone out.
		p.logger.Error("publish failed", "link", article.Link, "error", err)
	}
	if id == "" {
		return
	}
	if err := p.history.SetPostID(ctx, strings.ToLower(article.Link), id); err != nil {
		p.logger.Error("record post id failed", "link", article.Link, "error", err)
	}
}

// printPreview is emitted for every composed post, dry-run or not.
func (p *Pipeline) printPreview(post domain.Post) {
	fmt.Fprintln(p.preview, "\n--- Post Preview ---")
	for i, part := range post.Parts {
		if i > 0 {
			fmt.Fprintln(p.preview, "---")
		}
		fmt.Fprintln(p.preview, part)
	}
	fmt.Fprintln(p.preview, "--- End Preview ---")
}
