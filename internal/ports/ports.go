package ports

import (
	"context"
	"time"

	"EndoDigest/internal/domain"
)

// ArticleSource pulls candidate articles for the day's theme. Implementations
// fail the whole fetch on transport errors; an empty result is not an error.
type ArticleSource interface {
	Name() string
	Fetch(ctx context.Context, theme domain.Theme, limit int) ([]domain.CandidateArticle, error)
}

// HistoryStore persists published canonical links so they are never repeated.
type HistoryStore interface {
	// Keys loads every recorded link key at cycle start.
	Keys(ctx context.Context) (map[string]struct{}, error)

	// Has tests a single link for membership (used at fetch time).
	Has(ctx context.Context, link string) (bool, error)

	// Reserve appends an entry with no external post id. It is called before
	// any publish attempt so a failure cannot re-select the same article.
	Reserve(ctx context.Context, entry domain.HistoryEntry) error

	// SetPostID stores the external id returned by a successful publish.
	SetPostID(ctx context.Context, link, postID string) error

	// CountPostedSince reports how many entries were recorded at or after t.
	CountPostedSince(ctx context.Context, t time.Time) (int, error)
}

// Summarizer produces a structured summary for one article.
type Summarizer interface {
	Summarize(ctx context.Context, title, abstract string) (domain.Summary, error)
}

// Publisher posts composed content; thread parts become a reply chain.
// It returns the external id of the first part.
type Publisher interface {
	Publish(ctx context.Context, post domain.Post) (string, error)
}

// SelectionPolicy picks up to k articles from the deduplicated pool.
type SelectionPolicy interface {
	Select(pool []domain.FilteredArticle, k int) []domain.FilteredArticle
}
