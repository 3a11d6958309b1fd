package models

import (
	"sort"
	"strings"
	"time"
)

// URLSet is a set of candidate URLs. Members are trimmed and non-empty.
type URLSet map[string]struct{}

// NewURLSet builds a set from raw strings, trimming each and dropping blanks.
func NewURLSet(raw ...string) URLSet {
	set := make(URLSet, len(raw))
	for _, r := range raw {
		set.Add(r)
	}
	return set
}

// Add trims u and inserts it unless it is blank.
func (s URLSet) Add(u string) {
	u = strings.TrimSpace(u)
	if u == "" {
		return
	}
	s[u] = struct{}{}
}

// Sorted returns the members in lexical order.
func (s URLSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// FetchedPage is a successful fetch outcome.
type FetchedPage struct {
	SourceURL   string
	FinalURL    string
	StatusCode  int
	Elapsed     time.Duration
	ContentType string
	Body        string
}

// CrawlResult is what a successful crawl task hands to the output sink.
type CrawlResult struct {
	SourceURL string     `json:"sourceUrl"`
	FinalURL  string     `json:"finalUrl"`
	Record    *SeoRecord `json:"record"`
}

type FailedURL struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// CrawlSummary reports the outcome of a batch.
type CrawlSummary struct {
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Failures  []FailedURL `json:"failures,omitempty"`
}
