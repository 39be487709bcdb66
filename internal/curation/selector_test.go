package curation

import (
	"math/rand"
	"strings"
	"testing"

	"EndoDigest/internal/domain"
)

func pool(n int) []domain.FilteredArticle {
	articles := make([]domain.FilteredArticle, n)
	for i := range articles {
		articles[i].Title = string(rune('A' + i))
		articles[i].Link = "https://doi.org/" + strings.ToLower(articles[i].Title)
	}
	return articles
}

func TestPrefixPolicyTakesFirstK(t *testing.T) {
	t.Parallel()

	got := PrefixPolicy{}.Select(pool(5), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 picks, got %d", len(got))
	}
	for i, want := range []string{"A", "B", "C"} {
		if got[i].Title != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].Title)
		}
	}
}

func TestSelectCapsAtPoolSize(t *testing.T) {
	t.Parallel()

	for _, policy := range []interface {
		Select([]domain.FilteredArticle, int) []domain.FilteredArticle
	}{PrefixPolicy{}, SamplePolicy{Rand: rand.New(rand.NewSource(1))}} {
		if got := policy.Select(pool(2), 5); len(got) != 2 {
			t.Fatalf("expected min(K, pool)=2, got %d", len(got))
		}
		if got := policy.Select(nil, 3); len(got) != 0 {
			t.Fatalf("expected empty selection from empty pool, got %d", len(got))
		}
		if got := policy.Select(pool(3), 0); len(got) != 0 {
			t.Fatalf("expected empty selection for k=0, got %d", len(got))
		}
	}
}

func TestSamplePolicyPicksDistinct(t *testing.T) {
	t.Parallel()

	policy := SamplePolicy{Rand: rand.New(rand.NewSource(42))}
	for trial := 0; trial < 50; trial++ {
		got := policy.Select(pool(6), 4)
		if len(got) != 4 {
			t.Fatalf("expected 4 picks, got %d", len(got))
		}
		seen := map[string]bool{}
		for _, a := range got {
			if seen[a.Link] {
				t.Fatalf("duplicate pick %s", a.Link)
			}
			seen[a.Link] = true
		}
	}
}

func TestPolicyFromName(t *testing.T) {
	t.Parallel()

	if _, err := PolicyFromName("prefix"); err != nil {
		t.Fatalf("prefix: %v", err)
	}
	if _, err := PolicyFromName("sample"); err != nil {
		t.Fatalf("sample: %v", err)
	}
	if _, err := PolicyFromName(""); err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, err := PolicyFromName("nope"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
