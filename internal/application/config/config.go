package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"seo_crawler/internal/domain/adaptors"

	"github.com/joho/godotenv"
)

const (
	defaultConcurrency  = 10
	defaultFetchTimeout = 20 * time.Second
	defaultMaxBodyBytes = 5 << 20
	defaultOutputPath   = `foundurls.txt`
	defaultSerpDatabase = `uk`
	defaultPprofHost    = `:6060`
)

type AppConfig struct {
	LogLevel    string
	DebugMode   bool
	MetricsHost string
	PprofHost   string
	Crawl       CrawlConfig
	Serp        SerpConfig
}

type CrawlConfig struct {
	Concurrency  int
	FetchTimeout time.Duration
	MaxBodyBytes int64
	OutputPath   string
	RecordsPath  string
}

// SerpConfig configures the ranked-results URL source. An empty APIKey is not
// a config error; the source reports it when asked for URLs.
type SerpConfig struct {
	APIKey   string
	Database string
}

func NewAppConfig() (*AppConfig, error) {
	return loadAppConfig(`config.env`)
}

func loadAppConfig(envFile string) (*AppConfig, error) {
	err := godotenv.Load(envFile)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading %s: %w", envFile, err)
	}

	var errMsg []string
	cfg := AppConfig{}
	cfg.LogLevel = os.Getenv("APP_LOG_LEVEL")
	cfg.DebugMode = os.Getenv("APP_ENABLE_DEBUG") == "true"
	cfg.MetricsHost = os.Getenv("HTTP_APP_METRICS_HOST")
	cfg.PprofHost = envOr("HTTP_APP_PPROF_HOST", defaultPprofHost)

	cfg.Crawl.OutputPath = envOr("CRAWL_OUTPUT_PATH", defaultOutputPath)
	cfg.Crawl.RecordsPath = os.Getenv("CRAWL_RECORDS_PATH")

	cfg.Crawl.Concurrency = defaultConcurrency
	if v := os.Getenv("CRAWL_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errMsg = append(errMsg, fmt.Sprintf(`CRAWL_CONCURRENCY must be a positive integer, got %q`, v))
		} else {
			cfg.Crawl.Concurrency = n
		}
	}

	cfg.Crawl.FetchTimeout = defaultFetchTimeout
	if v := os.Getenv("CRAWL_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errMsg = append(errMsg, fmt.Sprintf(`CRAWL_FETCH_TIMEOUT must be a positive duration, got %q`, v))
		} else {
			cfg.Crawl.FetchTimeout = d
		}
	}

	cfg.Crawl.MaxBodyBytes = defaultMaxBodyBytes
	if v := os.Getenv("CRAWL_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			errMsg = append(errMsg, fmt.Sprintf(`CRAWL_MAX_BODY_BYTES must be a positive integer, got %q`, v))
		} else {
			cfg.Crawl.MaxBodyBytes = n
		}
	}

	cfg.Serp.APIKey = os.Getenv("SEMRUSH_API_KEY")
	cfg.Serp.Database = envOr("SEMRUSH_DATABASE", defaultSerpDatabase)

	errMsg = append(errMsg, validate(&cfg)...)
	if len(errMsg) != 0 {
		return nil, fmt.Errorf(`validation failed: %s`, strings.Join(errMsg, "\n"))
	}

	return &cfg, nil
}

// ValidateServer checks the settings only server mode needs.
func (c *AppConfig) ValidateServer() error {
	if c.MetricsHost == "" {
		return fmt.Errorf(`validation failed: metrics host is empty`)
	}
	return nil
}

func validate(cfg *AppConfig) []string {
	var errMsg []string
	if cfg.LogLevel == "" {
		errMsg = append(errMsg, `log level is empty`)
	} else if !adaptors.LogLevel(cfg.LogLevel).Valid() {
		errMsg = append(errMsg, fmt.Sprintf(`log level %q is not supported`, cfg.LogLevel))
	}
	return errMsg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
