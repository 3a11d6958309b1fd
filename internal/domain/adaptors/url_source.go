package adaptors

import (
	"context"

	"seo_crawler/internal/domain/models"
)

// URLSource supplies the candidate URLs of a crawl.
type URLSource interface {
	URLs(ctx context.Context) (models.URLSet, error)
}
