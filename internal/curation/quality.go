package curation

import (
	"strings"

	"EndoDigest/internal/domain"
	"EndoDigest/internal/ranking"
)

var admittedQuartiles = map[string]struct{}{
	"Q1": {}, "Q2": {}, "Q3": {}, "Q4": {},
}

// QualityFilter admits candidates published in ranked, domain-relevant
// venues and orders the priority venue's articles ahead of everything else.
type QualityFilter struct {
	table      *ranking.Table
	domainTerm string
	priority   string
}

// NewQualityFilter binds the loaded ranking table, the category term that
// marks a venue as domain-relevant, and the one always-first priority venue.
func NewQualityFilter(table *ranking.Table, domainTerm, priorityVenue string) *QualityFilter {
	return &QualityFilter{
		table:      table,
		domainTerm: domainTerm,
		priority:   ranking.Normalize(priorityVenue),
	}
}

// Apply filters candidates in source order. Output is all priority articles
// followed by all non-priority articles, each group preserving input order.
//
// Candidates carrying their own quartile (curated-feed entries) skip the
// ranking-table lookup.
func (f *QualityFilter) Apply(candidates []domain.CandidateArticle) []domain.FilteredArticle {
	var priority, regular []domain.FilteredArticle

	for _, c := range candidates {
		if c.Journal == "" {
			continue
		}
		norm := ranking.Normalize(c.Journal)

		if c.Quartile == "" {
			rec, ok := f.table.Lookup(norm)
			if !ok {
				continue
			}
			if _, ok := admittedQuartiles[rec.Quartile]; !ok {
				continue
			}
			if !strings.Contains(rec.Categories, f.domainTerm) {
				continue
			}
			c.Journal = rec.Title
			c.Quartile = rec.Quartile
		}

		article := domain.FilteredArticle{CandidateArticle: c}
		if f.priority != "" && strings.Contains(norm, f.priority) {
			article.Priority = true
			priority = append(priority, article)
		} else {
			regular = append(regular, article)
		}
	}

	return append(priority, regular...)
}
