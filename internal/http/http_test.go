package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	domain "seo_crawler/internal/domain/adaptors"
	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/http/middleware"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serverEnv = []string{
	"HTTP_SERVER_HOST",
	"HTTP_APP_READ_TIMEOUT_DURATION",
	"HTTP_APP_READ_HEADER_TIMEOUT_DURATION",
	"HTTP_APP_WRITE_TIMEOUT_DURATION",
	"HTTP_APP_IDLE_TIMEOUT_DURATION",
	"HTTP_APP_SHUTDOWN_TIMEOUT_DURATION",
	"HTTP_APP_MAX_BATCH_URLS",
}

func clearServerEnv(t *testing.T) {
	for _, k := range serverEnv {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadHTTPServerConfig(t *testing.T) {
	clearServerEnv(t)
	envFile := filepath.Join(t.TempDir(), "config.env")
	content := "HTTP_SERVER_HOST=:8080\n" +
		"HTTP_APP_READ_TIMEOUT_DURATION=5s\n" +
		"HTTP_APP_READ_HEADER_TIMEOUT_DURATION=2s\n" +
		"HTTP_APP_WRITE_TIMEOUT_DURATION=2m\n" +
		"HTTP_APP_IDLE_TIMEOUT_DURATION=30s\n" +
		"HTTP_APP_SHUTDOWN_TIMEOUT_DURATION=10s\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := loadHTTPServerConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Host)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Read)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.ReadHeader)
	assert.Equal(t, 2*time.Minute, cfg.Timeouts.Write)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Idle)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.ShutdownWait)
	assert.Equal(t, defaultMaxBatchURLs, cfg.MaxBatchURLs)
}

func TestLoadHTTPServerConfig_Invalid(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("HTTP_APP_READ_TIMEOUT_DURATION", "soon")
	t.Setenv("HTTP_APP_MAX_BATCH_URLS", "-3")

	_, err := loadHTTPServerConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "HTTP_SERVER_HOST is required")
	assert.Contains(t, msg, "HTTP_APP_READ_TIMEOUT_DURATION: invalid duration format")
	assert.Contains(t, msg, "HTTP_APP_SHUTDOWN_TIMEOUT_DURATION is required")
	assert.Contains(t, msg, "HTTP_APP_MAX_BATCH_URLS must be a positive integer")
}

func TestCrawlBudget(t *testing.T) {
	assert.Equal(t, 1000*time.Second, crawlBudget(500, 10, 20*time.Second))
	assert.Equal(t, 60*time.Second, crawlBudget(21, 10, 20*time.Second))
	assert.Equal(t, 3*time.Second, crawlBudget(3, 0, time.Second))
	assert.Zero(t, crawlBudget(0, 10, time.Second))
}

func TestExampleConfigFitsCrawlBatch(t *testing.T) {
	env, err := godotenv.Read(filepath.Join("..", "..", "config.env.example"))
	require.NoError(t, err)

	batch, err := strconv.Atoi(env["HTTP_APP_MAX_BATCH_URLS"])
	require.NoError(t, err)
	concurrency, err := strconv.Atoi(env["CRAWL_CONCURRENCY"])
	require.NoError(t, err)
	fetchTimeout, err := time.ParseDuration(env["CRAWL_FETCH_TIMEOUT"])
	require.NoError(t, err)
	writeTimeout, err := time.ParseDuration(env["HTTP_APP_WRITE_TIMEOUT_DURATION"])
	require.NoError(t, err)

	assert.LessOrEqual(t, crawlBudget(batch, concurrency, fetchTimeout), writeTimeout)
}

type stubCrawler struct{}

func (stubCrawler) Audit(_ context.Context, sourceURL string) (*models.CrawlResult, error) {
	return &models.CrawlResult{SourceURL: sourceURL, FinalURL: sourceURL, Record: &models.SeoRecord{URL: sourceURL}}, nil
}

func (stubCrawler) Crawl(_ context.Context, urls models.URLSet, sink domain.Sink) (models.CrawlSummary, error) {
	var summary models.CrawlSummary
	for _, u := range urls.Sorted() {
		if err := sink.Write(&models.CrawlResult{SourceURL: u, FinalURL: u}); err != nil {
			return summary, err
		}
		summary.Succeeded++
	}
	return summary, nil
}

type stubRanked struct{}

func (stubRanked) OrganicURLs(context.Context, string, int) models.URLSet {
	return models.NewURLSet()
}

func TestRouter(t *testing.T) {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	ts := httptest.NewServer(NewRouter(logger, 10, stubCrawler{}, stubRanked{}).httpRouter)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp, err = http.Post(ts.URL+"/audit", "application/json", strings.NewReader(`{"url": "https://example.com"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/crawl", "application/json", strings.NewReader(`{"urls": ["https://a.example"]}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/audit")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

type fakeServer struct {
	startErr error
	done     chan struct{}
	once     sync.Once
	stopped  bool
}

func newFakeServer(startErr error) *fakeServer {
	return &fakeServer{startErr: startErr, done: make(chan struct{})}
}

func (s *fakeServer) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	<-s.done
	return nil
}

func (s *fakeServer) Stop() error {
	s.once.Do(func() {
		s.stopped = true
		close(s.done)
	})
	return nil
}

func TestRun_StopsAllOnCancel(t *testing.T) {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	a, b := newFakeServer(nil), newFakeServer(nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, logger, []server{a, b}) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
	assert.True(t, a.stopped)
	assert.True(t, b.stopped)
}

func TestRun_StopsAllWhenOneFails(t *testing.T) {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	healthy := newFakeServer(nil)
	broken := newFakeServer(errors.New("address already in use"))

	err := run(context.Background(), logger, []server{healthy, broken})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.True(t, healthy.stopped)
}
