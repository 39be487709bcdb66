package compose

import (
	"strings"
	"testing"
	"time"

	"EndoDigest/internal/domain"
)

func article() domain.FilteredArticle {
	return domain.FilteredArticle{
		CandidateArticle: domain.CandidateArticle{
			Title: "Metformin revisited",
			Link:  "https://doi.org/10.1/abc",
		},
	}
}

func summary() domain.Summary {
	return domain.Summary{
		Conclusion: "Metformin still works.",
		Findings:   []string{"📉 HbA1c down", "🧪 Trial of 400 patients", "⏱ 12-month follow-up"},
	}
}

var hashtags = []string{"#Endocrinology", "#Diabetes"}

func TestSingleLayoutOrdering(t *testing.T) {
	t.Parallel()

	post := New(LayoutSingle, "", time.Monday).Compose(article(), summary(), hashtags, time.Thursday)
	if len(post.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(post.Parts))
	}
	text := post.Parts[0]

	sequence := []string{
		"📑 METFORMIN REVISITED",
		"💡 Metformin still works.",
		"📉 HbA1c down",
		"🧪 Trial of 400 patients",
		"⏱ 12-month follow-up",
		"🔗 https://doi.org/10.1/abc",
		"#Endocrinology #Diabetes",
	}
	last := -1
	for _, want := range sequence {
		idx := strings.Index(text, want)
		if idx < 0 {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
		if idx <= last {
			t.Fatalf("%q out of order in:\n%s", want, text)
		}
		last = idx
	}
}

func TestSingleLayoutOmitsEmptyConclusion(t *testing.T) {
	t.Parallel()

	s := summary()
	s.Conclusion = ""
	post := New(LayoutSingle, "", time.Monday).Compose(article(), s, hashtags, time.Thursday)
	if strings.Contains(post.Parts[0], "💡") {
		t.Fatalf("conclusion marker present for empty conclusion:\n%s", post.Parts[0])
	}
}

func TestThreadLayoutHasThreeParts(t *testing.T) {
	t.Parallel()

	post := New(LayoutThread, "", time.Monday).Compose(article(), summary(), hashtags, time.Thursday)
	if len(post.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(post.Parts))
	}
	if !post.IsThread() {
		t.Fatal("expected IsThread")
	}

	if !strings.Contains(post.Parts[0], "METFORMIN REVISITED") || !strings.Contains(post.Parts[0], "Metformin still works.") {
		t.Fatalf("part 1 misses headline or conclusion:\n%s", post.Parts[0])
	}
	if post.Parts[1] != "📉 HbA1c down\n🧪 Trial of 400 patients\n⏱ 12-month follow-up" {
		t.Fatalf("part 2 unexpected:\n%s", post.Parts[1])
	}
	if post.Parts[2] != "🔗 https://doi.org/10.1/abc\n#Endocrinology #Diabetes" {
		t.Fatalf("part 3 unexpected:\n%s", post.Parts[2])
	}
}

func TestThreadPrefixAppliesOnlyOnConfiguredDay(t *testing.T) {
	t.Parallel()

	composer := New(LayoutThread, "🧵 Monday Syndrome", time.Monday)

	monday := composer.Compose(article(), summary(), hashtags, time.Monday)
	if !strings.HasPrefix(monday.Parts[0], "🧵 Monday Syndrome\n") {
		t.Fatalf("prefix missing on Monday:\n%s", monday.Parts[0])
	}

	tuesday := composer.Compose(article(), summary(), hashtags, time.Tuesday)
	if strings.Contains(tuesday.Parts[0], "🧵") {
		t.Fatalf("prefix leaked to Tuesday:\n%s", tuesday.Parts[0])
	}
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	if l, err := ParseLayout(""); err != nil || l != LayoutSingle {
		t.Fatalf("empty layout: %v %v", l, err)
	}
	if _, err := ParseLayout("thread"); err != nil {
		t.Fatalf("thread: %v", err)
	}
	if _, err := ParseLayout("carousel"); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()

	d, err := ParseWeekday("monday")
	if err != nil || d != time.Monday {
		t.Fatalf("monday: %v %v", d, err)
	}
	if _, err := ParseWeekday("noday"); err == nil {
		t.Fatal("expected error for unknown weekday")
	}
}
