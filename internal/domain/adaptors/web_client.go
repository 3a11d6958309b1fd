package adaptors

import (
	"context"

	"seo_crawler/internal/domain/models"
)

// WebClient fetches one page. A returned error means the URL failed; it wraps
// errors.ErrNetwork or errors.ErrHTTPStatus.
type WebClient interface {
	Fetch(ctx context.Context, url string) (*models.FetchedPage, error)
}
