package curation

import (
	"fmt"
	"math/rand"

	"EndoDigest/internal/domain"
	"EndoDigest/internal/ports"
)

// PrefixPolicy takes the first k articles, preserving the incoming
// priority-first order.
type PrefixPolicy struct{}

var _ ports.SelectionPolicy = PrefixPolicy{}

// Select returns a copy of the first min(k, len(pool)) articles.
func (PrefixPolicy) Select(pool []domain.FilteredArticle, k int) []domain.FilteredArticle {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}
	return append([]domain.FilteredArticle(nil), pool[:k]...)
}

// SamplePolicy picks k distinct articles uniformly at random, ignoring the
// priority ordering. A nil Rand falls back to the shared math/rand source.
type SamplePolicy struct {
	Rand *rand.Rand
}

var _ ports.SelectionPolicy = SamplePolicy{}

// Select returns min(k, len(pool)) distinct articles.
func (p SamplePolicy) Select(pool []domain.FilteredArticle, k int) []domain.FilteredArticle {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}

	perm := p.perm(len(pool))
	picked := make([]domain.FilteredArticle, 0, k)
	for _, i := range perm[:k] {
		picked = append(picked, pool[i])
	}
	return picked
}

func (p SamplePolicy) perm(n int) []int {
	if p.Rand != nil {
		return p.Rand.Perm(n)
	}
	return rand.Perm(n)
}

// PolicyFromName resolves the configured selection policy.
func PolicyFromName(name string) (ports.SelectionPolicy, error) {
	switch name {
	case "prefix", "":
		return PrefixPolicy{}, nil
	case "sample":
		return SamplePolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown selection policy %q", name)
	}
}
