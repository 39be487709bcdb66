package curation

import (
	"strings"

	"EndoDigest/internal/domain"
)

// DropPublished removes articles whose canonical link is already a history
// key. Keys are lower-cased canonical links; the comparison is
// case-insensitive. This is the authoritative dedup pass, regardless of any
// filtering a source adapter did at fetch time.
func DropPublished(articles []domain.FilteredArticle, published map[string]struct{}) []domain.FilteredArticle {
	if len(published) == 0 {
		return articles
	}

	kept := make([]domain.FilteredArticle, 0, len(articles))
	for _, a := range articles {
		if _, ok := published[strings.ToLower(a.Link)]; ok {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}
