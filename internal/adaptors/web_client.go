package adaptors

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/pkg/errors"
	"seo_crawler/internal/pkg/metrics"

	"github.com/andybalholm/brotli"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
)

const (
	DefaultFetchTimeout = 20 * time.Second
	DefaultMaxBodyBytes = 5 << 20
)

// WebClient is the HTML fetcher: one GET per call, no retries.
type WebClient struct {
	client       *http.Client
	maxBodyBytes int64
	log          *log.Logger
}

func NewWebClient(timeout time.Duration, maxBodyBytes int64, log *log.Logger) *WebClient {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	rTripper := promhttp.InstrumentRoundTripperDuration(
		metrics.HTTPClientRequestDuration,
		promhttp.InstrumentRoundTripperCounter(metrics.HTTPClientRequestsTotal, http.DefaultTransport))

	// consent redirects often bounce through a Set-Cookie before the real page
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &WebClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: rTripper,
			Jar:       jar,
		},
		maxBodyBytes: maxBodyBytes,
		log:          log,
	}
}

// Fetch retrieves rawURL. Non-2xx responses fail with *errors.HTTPStatusError;
// every other failure wraps errors.ErrNetwork.
func (w *WebClient) Fetch(ctx context.Context, rawURL string) (*models.FetchedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		w.log.WithError(err).WithField(`url`, rawURL).Error(`failed to create request`)
		return nil, errors.Wrap(errors.Mark(err, errors.ErrNetwork), `failed to create request`)
	}

	// Set headers to mimic a browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	start := time.Now()
	resp, err := w.client.Do(req)
	if err != nil {
		w.log.WithError(err).WithField(`url`, rawURL).Warn(`request failed`)
		return nil, errors.Wrap(errors.Mark(err, errors.ErrNetwork), `request failed`)
	}
	defer resp.Body.Close()

	w.log.WithFields(log.Fields{
		`status`: resp.StatusCode,
		`url`:    rawURL,
	}).Infof(`got response [%d] for url: %s`, resp.StatusCode, rawURL)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &errors.HTTPStatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := w.readBody(resp, contentType)
	if err != nil {
		w.log.WithError(err).WithField(`url`, rawURL).Warn(`failed to read response body`)
		return nil, errors.Wrap(errors.Mark(err, errors.ErrNetwork), `failed to read response body`)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &models.FetchedPage{
		SourceURL:   rawURL,
		FinalURL:    finalURL,
		StatusCode:  resp.StatusCode,
		Elapsed:     time.Since(start),
		ContentType: contentType,
		Body:        body,
	}, nil
}

// readBody undoes the content encoding, enforces the size cap and converts
// the document to UTF-8.
func (w *WebClient) readBody(resp *http.Response, contentType string) (string, error) {
	reader := io.Reader(resp.Body)
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	data, err := io.ReadAll(io.LimitReader(reader, w.maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > w.maxBodyBytes {
		return "", fmt.Errorf("response body exceeds limit of %d bytes", w.maxBodyBytes)
	}

	enc, name, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		w.log.WithError(err).Debugf(`failed to decode body as %s, keeping raw bytes`, name)
		return string(data), nil
	}
	return string(decoded), nil
}
