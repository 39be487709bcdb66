package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"EndoDigest/internal/config"
	"EndoDigest/internal/domain"
)

const efetchXML = `<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>11111</PMID>
      <Article>
        <Journal><Title>Diabetes Care</Title></Journal>
        <ArticleTitle>GLP-1 outcomes</ArticleTitle>
        <Abstract>
          <AbstractText>Part one.</AbstractText>
          <AbstractText>Part two.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pubmed">11111</ArticleId>
        <ArticleId IdType="doi">10.1/good</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>22222</PMID>
      <Article>
        <Journal><Title>Thyroid</Title></Journal>
        <ArticleTitle>TSH screening</ArticleTitle>
      </Article>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pubmed">22222</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`

func newTestClient(t *testing.T, eutils *httptest.Server, resolver *httptest.Server) *Client {
	t.Helper()
	c := NewClient(config.PubMedConfig{BaseURL: eutils.URL, LookbackDays: 30}, eutils.Client(), nil)
	if resolver != nil {
		c.resolverURL = resolver.URL
		c.resolver = resolver.Client()
	}
	return c
}

func eutilsServer(t *testing.T, idlist string, efetchBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("db") != "pubmed" || r.URL.Query().Get("retmode") != "json" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"esearchresult":{"idlist":[%s]}}`, idlist)
	})
	mux.HandleFunc("/efetch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(efetchBody))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func resolverServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/10.1/good", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/landing/good", http.StatusFound)
	})
	mux.HandleFunc("/landing/good", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchResolvesCanonicalLinks(t *testing.T) {
	t.Parallel()

	eutils := eutilsServer(t, `"11111","22222"`, efetchXML)
	resolver := resolverServer(t)
	client := newTestClient(t, eutils, resolver)

	articles, err := client.Fetch(context.Background(), domain.Theme{Queries: []string{"diabetes"}}, 5)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "GLP-1 outcomes" || first.Journal != "Diabetes Care" {
		t.Fatalf("unexpected record: %+v", first)
	}
	if first.Abstract != "Part one. Part two." {
		t.Fatalf("abstract not joined: %q", first.Abstract)
	}
	if want := resolver.URL + "/landing/good"; first.Link != want {
		t.Fatalf("expected resolved landing page %s, got %s", want, first.Link)
	}

	// No DOI falls back to the PubMed permalink.
	if want := permalinkBase + "/22222/"; articles[1].Link != want {
		t.Fatalf("expected permalink %s, got %s", want, articles[1].Link)
	}
}

func TestFetchFallsBackOnResolutionFailure(t *testing.T) {
	t.Parallel()

	eutils := eutilsServer(t, `"11111"`, efetchXML)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such doi", http.StatusNotFound)
	}))
	t.Cleanup(broken.Close)

	client := newTestClient(t, eutils, broken)

	articles, err := client.Fetch(context.Background(), domain.Theme{Queries: []string{"diabetes"}}, 5)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if want := broken.URL + "/10.1/good"; articles[0].Link != want {
		t.Fatalf("expected stable resolver fallback %s, got %s", want, articles[0].Link)
	}
}

func TestFetchEmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	eutils := eutilsServer(t, ``, efetchXML)
	client := newTestClient(t, eutils, nil)

	articles, err := client.Fetch(context.Background(), domain.Theme{Queries: []string{"obesity"}}, 5)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected no articles, got %d", len(articles))
	}
}

func TestFetchFailsOnTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server, nil)
	if _, err := client.Fetch(context.Background(), domain.Theme{Queries: []string{"thyroid"}}, 5); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestBuildTermAndsQueriesWithDateRange(t *testing.T) {
	t.Parallel()

	client := NewClient(config.PubMedConfig{LookbackDays: 7}, nil, nil)
	now := time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)

	term := client.buildTerm(domain.Theme{Queries: []string{"case report", "endocrine"}}, now)
	want := `case report AND endocrine AND ("2026/08/20"[Date - Publication] : "2026/08/27"[Date - Publication])`
	if term != want {
		t.Fatalf("term mismatch:\n got %s\nwant %s", term, want)
	}
	if !strings.Contains(term, "AND") {
		t.Fatal("terms not ANDed")
	}
}
