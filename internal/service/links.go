package service

import (
	"regexp"
	"strings"
)

// LinkKind selects which anchors a link count includes.
type LinkKind int

const (
	LinkAll LinkKind = iota
	LinkInternal
	LinkExternal
)

func (k LinkKind) String() string {
	switch k {
	case LinkAll:
		return `all`
	case LinkInternal:
		return `internal`
	case LinkExternal:
		return `external`
	}
	return `unknown`
}

var (
	schemeRelativeRe = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*:)?//`)
	rootRelativeRe   = regexp.MustCompile(`^/([^/]|$)`)
	excludedPrefixes = []string{`#`, `tel:`, `mailto:`}
)

// linkMatcher classifies href values against one page domain. Matching is a
// substring search on the raw href, not URL parsing: a domain that appears in
// a query string counts.
type linkMatcher struct {
	internal *regexp.Regexp
	domain   *regexp.Regexp
}

func newLinkMatcher(domain string) linkMatcher {
	escaped := regexp.QuoteMeta(domain)
	return linkMatcher{
		internal: regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*:)?//(.+\.)?` + escaped),
		domain:   regexp.MustCompile(escaped),
	}
}

func (m linkMatcher) matches(kind LinkKind, href string) bool {
	for _, p := range excludedPrefixes {
		if strings.HasPrefix(href, p) {
			return false
		}
	}

	switch kind {
	case LinkAll:
		return true
	case LinkInternal:
		return rootRelativeRe.MatchString(href) || m.internal.MatchString(href)
	case LinkExternal:
		return schemeRelativeRe.MatchString(href) && !m.domain.MatchString(href)
	}
	return false
}

// ClassifyLinks returns the hrefs of kind, in input order.
func ClassifyLinks(domain string, kind LinkKind, hrefs []string) []string {
	m := newLinkMatcher(domain)
	var out []string
	for _, h := range hrefs {
		if m.matches(kind, h) {
			out = append(out, h)
		}
	}
	return out
}
