package service

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/pkg/errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

var (
	descriptionNameRe   = regexp.MustCompile(`(?i)description`)
	googleAnalyticsRe   = regexp.MustCompile(`function\(i,s,o,g,r,a,m\)\{i\['GoogleAnalyticsObject'\]`)
	hasSchemeRe         = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	structuredDataQuery = `script[type="application/ld+json"]`
)

// Extractor turns an HTML document into a SeoRecord. It holds no per-page
// state and is safe for concurrent use.
type Extractor struct {
	log *log.Logger
}

func NewExtractor(log *log.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract never fails on missing or malformed parts of a page; each field
// falls back to its absent or zero value. It only returns an error wrapping
// errors.ErrExtraction when body cannot be parsed as markup.
func (e *Extractor) Extract(sourceURL, body string, responseCode int, responseTime float64) (*models.SeoRecord, error) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrExtraction), `failed to parse html`)
	}
	doc := goquery.NewDocumentFromNode(root)

	pageURL := NormalizeURL(sourceURL)
	domain := hostOf(pageURL)
	head := doc.Find(`head`).First()
	bodySel := doc.Find(`body`).First()

	title := firstText(head.Find(`title`))
	h1 := firstText(bodySel.Find(`h1`))
	metaDescription := firstAttr(head.Find(`meta[name]`).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return descriptionNameRe.MatchString(s.AttrOr(`name`, ``))
	}), `content`)
	charset := firstAttr(head.Find(`meta[charset]`), `charset`)
	viewport := firstAttr(head.Find(`meta[name="viewport"]`), `content`)
	amp := firstAttr(doc.Find(`link[rel~="amphtml"]`), `href`)
	structuredData := e.structuredData(doc, pageURL)
	gaCount := googleAnalyticsCount(doc)
	h1Count := doc.Find(`h1`).Length()
	h2Count := doc.Find(`h2`).Length()
	hrefs := anchorHrefs(doc)

	return &models.SeoRecord{
		URL:                         pageURL,
		Domain:                      domain,
		Title:                       title,
		TitleCount:                  head.Find(`title`).Length(),
		TitleLength:                 lengthOf(title),
		ResponseCode:                responseCode,
		ResponseTime:                responseTime,
		HasCharset:                  present(charset),
		HasViewport:                 present(viewport),
		AmpEnabled:                  present(amp),
		HasGoogleAnalytics:          gaCount > 0,
		HasDuplicateGoogleAnalytics: gaCount > 1,
		HasMetaDescription:          present(metaDescription),
		MetaDescription:             metaDescription,
		MetaDescriptionLength:       lengthOf(metaDescription),
		HasDoctype:                  doctype(root) != nil,
		HasH1:                       present(h1),
		H1:                          h1,
		H1Count:                     h1Count,
		HasH2:                       h2Count > 0,
		H2Count:                     h2Count,
		HasStructuredData:           len(structuredData) > 0,
		StructuredData:              structuredData,
		InternalLinksCount:          len(ClassifyLinks(domain, LinkInternal, hrefs)),
		ExternalLinksCount:          len(ClassifyLinks(domain, LinkExternal, hrefs)),
		OpenGraph:                   e.openGraph(body, pageURL),
	}, nil
}

// NormalizeURL prepends https:// to a URL given without a scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || hasSchemeRe.MatchString(raw) {
		return raw
	}
	return `https://` + strings.TrimPrefix(raw, `//`)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ``
	}
	return u.Host
}

func firstText(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(sel.First().Text())
	return &text
}

func firstAttr(sel *goquery.Selection, attr string) *string {
	if sel.Length() == 0 {
		return nil
	}
	val, ok := sel.First().Attr(attr)
	if !ok {
		return nil
	}
	return &val
}

func lengthOf(s *string) *int {
	if s == nil {
		return nil
	}
	n := utf8.RuneCountInString(*s)
	return &n
}

func present(s *string) bool {
	return s != nil && *s != ``
}

// doctype scans the direct children of the document root.
func doctype(root *html.Node) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			return c
		}
	}
	return nil
}

func (e *Extractor) structuredData(doc *goquery.Document, pageURL string) []any {
	var items []any
	doc.Find(structuredDataQuery).Each(func(i int, s *goquery.Selection) {
		var item any
		if err := json.Unmarshal([]byte(s.Text()), &item); err != nil {
			e.log.WithError(err).WithField(`url`, pageURL).Debugf(`skipping malformed json-ld block %d`, i)
			return
		}
		items = append(items, item)
	})
	return items
}

func (e *Extractor) openGraph(body, pageURL string) *models.OpenGraph {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(body)); err != nil {
		e.log.WithError(err).WithField(`url`, pageURL).Debug(`skipping open graph properties`)
		return nil
	}

	summary := models.OpenGraph{
		Title:       og.Title,
		Type:        og.Type,
		URL:         og.URL,
		Description: og.Description,
		SiteName:    og.SiteName,
	}
	if len(og.Images) > 0 && og.Images[0] != nil {
		summary.Image = og.Images[0].URL
	}
	if summary.IsZero() {
		return nil
	}
	return &summary
}

func googleAnalyticsCount(doc *goquery.Document) int {
	return doc.Find(`script`).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return googleAnalyticsRe.MatchString(s.Text())
	}).Length()
}

func anchorHrefs(doc *goquery.Document) []string {
	var hrefs []string
	doc.Find(`a[href]`).Each(func(_ int, s *goquery.Selection) {
		hrefs = append(hrefs, s.AttrOr(`href`, ``))
	})
	return hrefs
}
