package compose

import (
	"fmt"
	"strings"
	"time"

	"EndoDigest/internal/domain"
)

// Layout selects how a summarized article is rendered.
type Layout string

const (
	// LayoutSingle renders one text block.
	LayoutSingle Layout = "single"
	// LayoutThread renders an ordered 3-part reply chain.
	LayoutThread Layout = "thread"
)

// ParseLayout resolves the configured layout name. Empty means single.
func ParseLayout(name string) (Layout, error) {
	switch name {
	case "", string(LayoutSingle):
		return LayoutSingle, nil
	case string(LayoutThread):
		return LayoutThread, nil
	default:
		return "", fmt.Errorf("unknown post layout %q", name)
	}
}

// ParseWeekday resolves an English weekday name ("Monday").
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}

// Composer renders a summarized article into post text. No platform
// length-limit enforcement is performed.
type Composer struct {
	layout       Layout
	threadPrefix string
	prefixDay    time.Weekday
}

// New builds a composer. threadPrefix is prepended to the first thread part
// only on prefixDay; it never affects the single layout.
func New(layout Layout, threadPrefix string, prefixDay time.Weekday) *Composer {
	return &Composer{layout: layout, threadPrefix: threadPrefix, prefixDay: prefixDay}
}

// Compose renders the article according to the configured layout.
func (c *Composer) Compose(article domain.FilteredArticle, summary domain.Summary, hashtags []string, day time.Weekday) domain.Post {
	if c.layout == LayoutThread {
		return c.thread(article, summary, hashtags, day)
	}
	return c.single(article, summary, hashtags)
}

func headline(title string) string {
	return "📑 " + strings.ToUpper(title)
}

func (c *Composer) single(article domain.FilteredArticle, summary domain.Summary, hashtags []string) domain.Post {
	var b strings.Builder
	b.WriteString(headline(article.Title))
	b.WriteString("\n\n")
	if summary.Conclusion != "" {
		b.WriteString("💡 " + summary.Conclusion)
		b.WriteString("\n\n")
	}
	for _, f := range summary.Findings {
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\n🔗 " + article.Link)
	b.WriteString("\n" + strings.Join(hashtags, " "))

	return domain.Post{Parts: []string{b.String()}}
}

func (c *Composer) thread(article domain.FilteredArticle, summary domain.Summary, hashtags []string, day time.Weekday) domain.Post {
	var head strings.Builder
	if c.threadPrefix != "" && day == c.prefixDay {
		head.WriteString(c.threadPrefix)
		head.WriteString("\n")
	}
	head.WriteString(headline(article.Title))
	if summary.Conclusion != "" {
		head.WriteString("\n\n💡 " + summary.Conclusion)
	}

	findings := strings.Join(summary.Findings, "\n")
	tail := "🔗 " + article.Link + "\n" + strings.Join(hashtags, " ")

	return domain.Post{Parts: []string{head.String(), findings, tail}}
}
