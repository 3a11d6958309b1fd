package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"seo_crawler/internal/adaptors"
	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
)

const defaultKeywordLimit = 10

// RankedURLs looks up the pages ranking for a keyword.
type RankedURLs interface {
	OrganicURLs(ctx context.Context, keyword string, limit int) models.URLSet
}

type CrawlHandler struct {
	crawler  Crawler
	ranked   RankedURLs
	maxBatch int
	log      *log.Logger
}

// CrawlRequest names the candidates either directly or through a keyword.
type CrawlRequest struct {
	URLs    []string `json:"urls"`
	Keyword string   `json:"keyword"`
	Limit   int      `json:"limit"`
}

type CrawlResponse struct {
	Summary models.CrawlSummary   `json:"summary"`
	Results []*models.CrawlResult `json:"results"`
}

func (r *CrawlRequest) Validate(maxBatch int) error {
	switch {
	case len(r.URLs) == 0 && r.Keyword == "":
		return errors.New("either urls or keyword is required")
	case len(r.URLs) > 0 && r.Keyword != "":
		return errors.New("urls and keyword are mutually exclusive")
	case len(r.URLs) > maxBatch:
		return errors.Errorf("at most %d urls per request, got %d", maxBatch, len(r.URLs))
	case r.Limit < 0 || r.Limit > maxBatch:
		return errors.Errorf("limit must be between 0 and %d", maxBatch)
	}

	for _, u := range r.URLs {
		if err := validateURL(u); err != nil {
			return err
		}
	}
	return nil
}

func NewCrawlHandler(crawler Crawler, ranked RankedURLs, maxBatch int, log *log.Logger) *CrawlHandler {
	return &CrawlHandler{
		crawler:  crawler,
		ranked:   ranked,
		maxBatch: maxBatch,
		log:      log,
	}
}

func (h *CrawlHandler) Handle(w http.ResponseWriter, r *http.Request) {
	h.log.Debug(`crawl handler called`)

	var request CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, r, h.log, `failed to decode request body`, err, http.StatusBadRequest)
		return
	}

	if err := request.Validate(h.maxBatch); err != nil {
		sendError(w, r, h.log, `failed to validate request body`, err, http.StatusBadRequest)
		return
	}

	urls := models.NewURLSet(request.URLs...)
	if request.Keyword != "" {
		limit := request.Limit
		if limit == 0 {
			limit = defaultKeywordLimit
		}
		urls = h.ranked.OrganicURLs(r.Context(), request.Keyword, limit)
	}

	sink := &adaptors.MemorySink{}
	summary, err := h.crawler.Crawl(r.Context(), urls, sink)
	if err != nil {
		sendError(w, r, h.log, `failed to crawl urls`, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, CrawlResponse{Summary: summary, Results: sink.Results()})
}
