package models

// SeoRecord holds the on-page SEO signals of one fetched page. Absent values
// are nil.
type SeoRecord struct {
	URL                         string  `json:"url"`
	Domain                      string  `json:"domain"`
	Title                       *string `json:"title"`
	TitleCount                  int     `json:"titleCount"`
	TitleLength                 *int    `json:"titleLength"`
	ResponseCode                int     `json:"responseCode"`
	ResponseTime                float64 `json:"responseTime"`
	HasCharset                  bool    `json:"hasCharset"`
	HasViewport                 bool    `json:"hasViewport"`
	AmpEnabled                  bool    `json:"ampEnabled"`
	HasGoogleAnalytics          bool    `json:"hasGoogleAnalytics"`
	HasDuplicateGoogleAnalytics bool    `json:"hasDuplicateGoogleAnalytics"`
	HasMetaDescription          bool    `json:"hasMetaDescription"`
	MetaDescription             *string `json:"metaDescription"`
	MetaDescriptionLength       *int    `json:"metaDescriptionLength"`
	HasDoctype                  bool    `json:"hasDoctype"`
	HasH1                       bool    `json:"hasH1"`
	H1                          *string `json:"h1"`
	H1Count                     int     `json:"h1Count"`
	HasH2                       bool    `json:"hasH2"`
	H2Count                     int     `json:"h2Count"`
	HasStructuredData           bool    `json:"hasStructuredData"`
	StructuredData              []any   `json:"structuredData"`
	InternalLinksCount          int     `json:"internalLinksCount"`
	ExternalLinksCount          int     `json:"externalLinksCount"`

	// OpenGraph is nil when the page declares no og: properties.
	OpenGraph *OpenGraph `json:"openGraph,omitempty"`
}

// OpenGraph is the subset of og: properties used for link previews.
type OpenGraph struct {
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Image       string `json:"image,omitempty"`
}

func (o OpenGraph) IsZero() bool {
	return o == OpenGraph{}
}
