package service

import (
	"context"
	"fmt"
	"time"

	"seo_crawler/internal/domain/adaptors"
	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/pkg/errors"
	"seo_crawler/internal/pkg/metrics"
	"seo_crawler/internal/pkg/worker_pool"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultConcurrency = 10

// Crawler fetches and audits a batch of URLs with bounded concurrency.
type Crawler struct {
	log         *log.Logger
	webClient   adaptors.WebClient
	extractor   *Extractor
	concurrency int
}

func NewCrawler(log *log.Logger, webClient adaptors.WebClient, extractor *Extractor, concurrency int) *Crawler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Crawler{
		log:         log,
		webClient:   webClient,
		extractor:   extractor,
		concurrency: concurrency,
	}
}

// Audit fetches one URL and extracts its SEO record.
func (c *Crawler) Audit(ctx context.Context, sourceURL string) (*models.CrawlResult, error) {
	page, err := c.webClient.Fetch(ctx, NormalizeURL(sourceURL))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	record, err := c.extractor.Extract(sourceURL, page.Body, page.StatusCode, page.Elapsed.Seconds())
	metrics.CrawlExtractDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	return &models.CrawlResult{
		SourceURL: sourceURL,
		FinalURL:  page.FinalURL,
		Record:    record,
	}, nil
}

// Crawl attempts every URL exactly once. A failed URL is logged and counted
// but never stops the batch. Each success is written to sink as soon as it
// completes, so rows follow completion order. Only a sink error ends the
// crawl early; it is returned together with the counts gathered so far.
// Cancelling ctx does not shorten the batch: fetches are bounded by the
// client timeout only.
func (c *Crawler) Crawl(ctx context.Context, urls models.URLSet, sink adaptors.Sink) (models.CrawlSummary, error) {
	ctx = context.WithoutCancel(ctx)

	entry := c.log.WithFields(log.Fields{
		`crawl_id`:    uuid.NewString(),
		`urls`:        len(urls),
		`concurrency`: c.concurrency,
	})
	entry.Info(`crawl started`)
	start := time.Now()

	pool := worker_pool.NewWorkerPool(ctx, c.concurrency, false, c.log)
	go func() {
		defer pool.Close()
		for _, u := range urls.Sorted() {
			if err := pool.Submit(u, c.task(u)); err != nil {
				return
			}
		}
	}()

	// this loop is the only writer to sink
	var summary models.CrawlSummary
	var sinkErr error
	for res := range pool.ResultsCh {
		if sinkErr != nil {
			continue
		}
		if res.Err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, models.FailedURL{URL: res.ID, Reason: failureReason(res.Err)})
			continue
		}

		if err := sink.Write(res.Result.(*models.CrawlResult)); err != nil {
			sinkErr = errors.Wrap(err, `failed to write crawl result`)
			entry.WithError(err).Error(`output sink failed, stopping crawl`)
			pool.Stop()
			continue
		}
		summary.Succeeded++
	}

	entry.WithFields(log.Fields{
		`succeeded`: summary.Succeeded,
		`failed`:    summary.Failed,
		`duration`:  time.Since(start).String(),
	}).Info(`crawl finished`)

	return summary, sinkErr
}

func (c *Crawler) task(sourceURL string) worker_pool.TaskFunc {
	return func(ctx context.Context) (any, error) {
		metrics.CrawlTasksInFlight.Inc()
		defer metrics.CrawlTasksInFlight.Dec()

		result, err := c.Audit(ctx, sourceURL)
		metrics.CrawlPagesTotal.WithLabelValues(errors.Kind(err)).Inc()
		if err != nil {
			c.log.WithError(err).WithFields(log.Fields{
				`url`:    sourceURL,
				`reason`: failureReason(err),
			}).Warn(`skipping url`)
			return nil, err
		}
		return result, nil
	}
}

func failureReason(err error) string {
	var statusErr *errors.HTTPStatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf(`%s: status %d`, errors.Kind(err), statusErr.StatusCode)
	}
	return errors.Kind(err)
}
