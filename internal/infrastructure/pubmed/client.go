package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"EndoDigest/internal/config"
	"EndoDigest/internal/domain"
	"EndoDigest/internal/ports"
)

const (
	defaultBaseURL   = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	doiResolverBase  = "https://doi.org"
	permalinkBase    = "https://pubmed.ncbi.nlm.nih.gov"
	dateClauseLayout = "2006/01/02"
)

// Client queries the NCBI E-utilities endpoints for recent articles matching
// the day's theme and resolves a canonical link per record.
type Client struct {
	baseURL      string
	resolverURL  string
	lookbackDays int
	client       *http.Client
	resolver     *http.Client
	logger       *slog.Logger
}

var _ ports.ArticleSource = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets a 20s timeout default.
// The resolver client follows redirects to the publisher landing page.
func NewClient(cfg config.PubMedConfig, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = 30
	}

	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		resolverURL:  doiResolverBase,
		lookbackDays: lookback,
		client:       client,
		resolver:     &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
	}
}

// Name identifies the adapter inside the source registry.
func (c *Client) Name() string {
	return "pubmed"
}

// Fetch searches for identifiers matching the theme within the lookback
// window and batch-fetches their records. An empty id list is not an error.
func (c *Client) Fetch(ctx context.Context, theme domain.Theme, limit int) ([]domain.CandidateArticle, error) {
	term := c.buildTerm(theme, time.Now())
	c.debug("pubmed query", "term", term, "retmax", limit)

	ids, err := c.search(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("pubmed search: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	records, err := c.fetchRecords(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("pubmed fetch: %w", err)
	}
	return records, nil
}

func (c *Client) buildTerm(theme domain.Theme, now time.Time) string {
	start := now.AddDate(0, 0, -c.lookbackDays)
	dateClause := fmt.Sprintf(`("%s"[Date - Publication] : "%s"[Date - Publication])`,
		start.Format(dateClauseLayout), now.Format(dateClauseLayout))

	terms := append(append([]string(nil), theme.Queries...), dateClause)
	return strings.Join(terms, " AND ")
}

func (c *Client) search(ctx context.Context, term string, retmax int) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("sort", "date")
	params.Set("retmode", "json")

	body, err := c.get(ctx, c.baseURL+"/esearch.fcgi?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode esearch response: %w", err)
	}
	return result.ESearchResult.IDList, nil
}

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID     string      `xml:"MedlineCitation>PMID"`
	Title    string      `xml:"MedlineCitation>Article>ArticleTitle"`
	Journal  string      `xml:"MedlineCitation>Article>Journal>Title"`
	Abstract []string    `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	IDs      []articleID `xml:"PubmedData>ArticleIdList>ArticleId"`
}

type articleID struct {
	Type  string `xml:"IdType,attr"`
	Value string `xml:",chardata"`
}

func (a pubmedArticle) doi() string {
	for _, id := range a.IDs {
		if id.Type == "doi" {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}

func (c *Client) fetchRecords(ctx context.Context, ids []string) ([]domain.CandidateArticle, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, c.baseURL+"/efetch.fcgi?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("decode efetch response: %w", err)
	}

	records := make([]domain.CandidateArticle, 0, len(set.Articles))
	for _, art := range set.Articles {
		records = append(records, domain.CandidateArticle{
			Title:    strings.TrimSpace(art.Title),
			Journal:  strings.TrimSpace(art.Journal),
			Abstract: strings.TrimSpace(strings.Join(art.Abstract, " ")),
			Link:     c.canonicalLink(ctx, art),
		})
	}
	return records, nil
}

// canonicalLink prefers the resolved DOI landing page, then the stable DOI
// resolver URL, then the PubMed permalink for the PMID.
func (c *Client) canonicalLink(ctx context.Context, art pubmedArticle) string {
	if doi := art.doi(); doi != "" {
		return c.resolveDOI(ctx, doi)
	}
	if pmid := strings.TrimSpace(art.PMID); pmid != "" {
		return permalinkBase + "/" + pmid + "/"
	}
	return permalinkBase + "/"
}

func (c *Client) resolveDOI(ctx context.Context, doi string) string {
	fallback := c.resolverURL + "/" + doi

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fallback, nil)
	if err != nil {
		return fallback
	}

	resp, err := c.resolver.Do(req)
	if err != nil {
		c.debug("doi resolution failed", "doi", doi, "error", err)
		return fallback
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fallback
	}
	return resp.Request.URL.String()
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "EndoDigest/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubmed returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
