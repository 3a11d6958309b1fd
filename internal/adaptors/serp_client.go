package adaptors

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/pkg/errors"
	"seo_crawler/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	SerpEndpoint        = `https://api.semrush.com/`
	serpReportType      = `phrase_organic`
	serpURLColumn       = `Ur`
	defaultSerpDatabase = `uk`
)

// SerpClient fetches the organic result URLs ranking for a keyword. Every
// failure is logged and yields an empty set.
type SerpClient struct {
	client   *http.Client
	endpoint string
	apiKey   string
	database string
	log      *log.Logger
}

func NewSerpClient(apiKey, database string, timeout time.Duration, log *log.Logger) *SerpClient {
	if database == "" {
		database = defaultSerpDatabase
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	return &SerpClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: promhttp.InstrumentRoundTripperCounter(
				metrics.HTTPClientRequestsTotal, http.DefaultTransport),
		},
		endpoint: SerpEndpoint,
		apiKey:   apiKey,
		database: database,
		log:      log,
	}
}

// WithEndpoint points the client at another base URL.
func (c *SerpClient) WithEndpoint(endpoint string) *SerpClient {
	c.endpoint = endpoint
	return c
}

// QueryURL builds the report request for keyword.
func (c *SerpClient) QueryURL(keyword string, limit int) string {
	q := url.Values{}
	q.Set(`type`, serpReportType)
	q.Set(`key`, c.apiKey)
	q.Set(`phrase`, keyword)
	q.Set(`export_columns`, serpURLColumn)
	q.Set(`database`, c.database)
	q.Set(`display_limit`, strconv.Itoa(limit))
	return c.endpoint + `?` + q.Encode()
}

func (c *SerpClient) OrganicURLs(ctx context.Context, keyword string, limit int) models.URLSet {
	urls := models.URLSet{}
	entry := c.log.WithFields(log.Fields{`keyword`: keyword, `limit`: limit})

	if c.apiKey == "" {
		err := errors.Mark(errors.New(`SEMRUSH_API_KEY is not set`), errors.ErrConfiguration)
		entry.WithError(err).Error(`cannot query ranked results`)
		return urls
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QueryURL(keyword, limit), nil)
	if err != nil {
		entry.WithError(err).Error(`failed to create ranked results request`)
		return urls
	}

	resp, err := c.client.Do(req)
	if err != nil {
		entry.WithError(err).Error(`ranked results request failed`)
		return urls
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.WithError(err).Error(`failed to read ranked results`)
		return urls
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		entry.WithError(&errors.HTTPStatusError{URL: c.endpoint, StatusCode: resp.StatusCode}).
			Error(`ranked results request rejected`)
		return urls
	}

	text := string(body)
	// errors come back as 200 with a plain "ERROR <code> :: <message>" body
	if strings.HasPrefix(text, `ERROR`) {
		err := errors.New(strings.TrimSpace(text))
		if strings.Contains(text, `KEY`) {
			err = errors.Mark(err, errors.ErrConfiguration)
		}
		entry.WithError(err).Error(`ranked results api returned an error`)
		return urls
	}

	urls = ParseSerpResponse(text)
	entry.Infof(`got %d ranked urls`, len(urls))
	return urls
}

// ParseSerpResponse reads a CRLF separated export whose first line is the
// column header.
func ParseSerpResponse(text string) models.URLSet {
	urls := models.URLSet{}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return urls
	}
	for _, line := range lines[1:] {
		urls.Add(line)
	}
	return urls
}

// SerpSource adapts a keyword query to URLSource.
type SerpSource struct {
	Client  *SerpClient
	Keyword string
	Limit   int
}

func (s SerpSource) URLs(ctx context.Context) (models.URLSet, error) {
	return s.Client.OrganicURLs(ctx, s.Keyword, s.Limit), nil
}
