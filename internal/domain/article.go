package domain

import "time"

// Theme describes one weekday's topic: what to search for and how to tag posts.
type Theme struct {
	Label    string
	Queries  []string
	Hashtags []string
}

// CandidateArticle is a raw source result before any quality checks.
// A non-empty Quartile marks an entry from a curated feed whose venue is
// admitted without a ranking-table lookup.
type CandidateArticle struct {
	Title    string
	Journal  string
	Abstract string
	Link     string
	Quartile string
}

// FilteredArticle is a candidate that passed the journal-ranking admission
// rules. Priority articles always precede non-priority ones in a filtered
// sequence.
type FilteredArticle struct {
	CandidateArticle
	Priority bool
}

// HistoryEntry records one published (or reserved) article. The key is the
// lower-cased canonical link. PostID stays empty on dry-run or when the
// publish call failed.
type HistoryEntry struct {
	Link     string
	Title    string
	Theme    string
	PostedAt time.Time
	PostID   string
}
