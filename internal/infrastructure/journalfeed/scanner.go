package journalfeed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"EndoDigest/internal/config"
	"EndoDigest/internal/domain"
	"EndoDigest/internal/ports"
)

// Scanner scrapes the curated venue's article listing. Every entry carries
// the feed's fixed journal name and quartile, so the ranking table is never
// consulted for it; entries already in history are dropped at fetch time.
type Scanner struct {
	feedURL  string
	journal  string
	quartile string
	history  ports.HistoryStore
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*Scanner)(nil)

// NewScanner wires the feed endpoint and the history store used for the
// fetch-time dedup pass. A nil client gets a 20s timeout default.
func NewScanner(cfg config.FeedConfig, history ports.HistoryStore, client *http.Client, logger *slog.Logger) *Scanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scanner{
		feedURL:  cfg.URL,
		journal:  cfg.Journal,
		quartile: cfg.Quartile,
		history:  history,
		client:   client,
		logger:   logger,
	}
}

// Name identifies the adapter inside the source registry.
func (s *Scanner) Name() string {
	return "journalfeed"
}

// Fetch pulls the fixed feed page; the theme carries no query for this
// source. An empty listing is a valid non-error outcome.
func (s *Scanner) Fetch(ctx context.Context, _ domain.Theme, limit int) ([]domain.CandidateArticle, error) {
	if s.feedURL == "" {
		return nil, fmt.Errorf("journal feed url is not configured")
	}

	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed url %s: %w", s.feedURL, err)
	}

	var entries []domain.CandidateArticle
	var walkErr error

	doc.Find("article, .article-item").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if limit > 0 && len(entries) >= limit {
			return false
		}

		entry, ok := s.parseEntry(sel, base)
		if !ok {
			return true
		}

		if s.history != nil {
			seen, err := s.history.Has(ctx, entry.Link)
			if err != nil {
				walkErr = fmt.Errorf("history lookup for %s: %w", entry.Link, err)
				return false
			}
			if seen {
				s.debug("skip published feed entry", "link", entry.Link)
				return true
			}
		}

		entries = append(entries, entry)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	s.debug("feed scan done", "entries", len(entries))
	return entries, nil
}

func (s *Scanner) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "EndoDigest/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return doc, nil
}

func (s *Scanner) parseEntry(sel *goquery.Selection, base *url.URL) (domain.CandidateArticle, bool) {
	link := sel.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		return ok && href != "" && !strings.HasPrefix(href, "#")
	}).First()

	href, ok := link.Attr("href")
	if !ok {
		return domain.CandidateArticle{}, false
	}

	title := strings.TrimSpace(sel.Find(".title, h2, h3").First().Text())
	if title == "" {
		title = strings.TrimSpace(link.Text())
	}
	if title == "" {
		return domain.CandidateArticle{}, false
	}

	abstract := strings.TrimSpace(sel.Find(".abstract, .summary").First().Text())

	resolved := href
	if ref, err := url.Parse(href); err == nil {
		resolved = base.ResolveReference(ref).String()
	}

	return domain.CandidateArticle{
		Title:    title,
		Journal:  s.journal,
		Abstract: abstract,
		Link:     resolved,
		Quartile: s.quartile,
	}, true
}

func (s *Scanner) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
