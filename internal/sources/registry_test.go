package sources

import (
	"context"
	"testing"

	"EndoDigest/internal/domain"
)

type stubSource struct{ name string }

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(context.Context, domain.Theme, int) ([]domain.CandidateArticle, error) {
	return nil, nil
}

func TestResolveAllPreservesConfiguredOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(stubSource{name: "pubmed"})
	r.Register(stubSource{name: "journalfeed"})

	ordered, err := r.ResolveAll([]string{"journalfeed", "pubmed"})
	if err != nil {
		t.Fatalf("ResolveAll error: %v", err)
	}
	if len(ordered) != 2 || ordered[0].Name() != "journalfeed" || ordered[1].Name() != "pubmed" {
		t.Fatalf("unexpected order: %v", ordered)
	}
}

func TestResolveUnknownSource(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(stubSource{name: "pubmed"})

	if _, err := r.Resolve("arxiv"); err == nil {
		t.Fatal("expected error for unregistered source")
	}
	if _, err := r.ResolveAll([]string{"pubmed", "arxiv"}); err == nil {
		t.Fatal("expected error when any configured source is missing")
	}
}
