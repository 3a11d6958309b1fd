package adaptors

import "seo_crawler/internal/domain/models"

// Sink receives one row per successful crawl. Implementations must be safe
// for concurrent use.
type Sink interface {
	Write(result *models.CrawlResult) error
}
