package domain

// Summary is the structured output of the summarizer gateway: a one-sentence
// conclusion plus short marker-prefixed findings.
type Summary struct {
	Conclusion string
	Findings   []string
}

// FallbackSummary substitutes for a failed summarization call so a single
// bad response never aborts the cycle.
func FallbackSummary() Summary {
	return Summary{Conclusion: "No conclusion"}
}

// Post is composed output ready for publishing: one text block, or an
// ordered thread where each part replies to the previous one.
type Post struct {
	Parts []string
}

// IsThread reports whether the post must be published as a reply chain.
func (p Post) IsThread() bool {
	return len(p.Parts) > 1
}
