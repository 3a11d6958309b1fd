package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	domain "seo_crawler/internal/domain/adaptors"
	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/pkg/errors"
	"seo_crawler/internal/service"

	log "github.com/sirupsen/logrus"
)

// Crawler is the part of service.Crawler the api exposes.
type Crawler interface {
	Audit(ctx context.Context, sourceURL string) (*models.CrawlResult, error)
	Crawl(ctx context.Context, urls models.URLSet, sink domain.Sink) (models.CrawlSummary, error)
}

type AuditHandler struct {
	crawler Crawler
	log     *log.Logger
}

type AuditRequest struct {
	URL string `json:"url"`
}

// Validate accepts a URL with or without a scheme; a missing scheme is
// treated as https.
func (r *AuditRequest) Validate() error {
	if r.URL == "" {
		return errors.New("url is empty")
	}
	return validateURL(r.URL)
}

func validateURL(raw string) error {
	u, err := url.Parse(service.NormalizeURL(raw))
	if err != nil {
		return errors.Wrap(err, `failed to parse url`)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("url %q has unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return errors.Errorf("url %q has no host", raw)
	}
	return nil
}

func NewAuditHandler(crawler Crawler, log *log.Logger) *AuditHandler {
	return &AuditHandler{
		crawler: crawler,
		log:     log,
	}
}

func (h *AuditHandler) Handle(w http.ResponseWriter, r *http.Request) {
	h.log.Debug(`audit handler called`)

	var request AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, r, h.log, `failed to decode request body`, err, http.StatusBadRequest)
		return
	}

	if err := request.Validate(); err != nil {
		sendError(w, r, h.log, `failed to validate request body`, err, http.StatusBadRequest)
		return
	}

	result, err := h.crawler.Audit(r.Context(), request.URL)
	if err != nil {
		sendError(w, r, h.log, `failed to audit web page`, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}
