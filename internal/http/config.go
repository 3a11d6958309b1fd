package http

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServerConfig struct {
	Host     string
	Timeouts struct {
		Read         time.Duration
		ReadHeader   time.Duration
		Write        time.Duration
		Idle         time.Duration
		ShutdownWait time.Duration
	}
	// MaxBatchURLs caps the candidate set of a single /crawl request.
	MaxBatchURLs int
}

const defaultMaxBatchURLs = 100

func NewHTTPServerConfig() (*HTTPServerConfig, error) {
	return loadHTTPServerConfig(`config.env`)
}

func loadHTTPServerConfig(envFile string) (*HTTPServerConfig, error) {
	err := godotenv.Load(envFile)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading %s: %w", envFile, err)
	}

	var errors []string
	cfg := &HTTPServerConfig{MaxBatchURLs: defaultMaxBatchURLs}

	cfg.Host = os.Getenv("HTTP_SERVER_HOST")
	if cfg.Host == "" {
		errors = append(errors, "HTTP_SERVER_HOST is required")
	}

	parseDuration := func(envVar string, dst *time.Duration) {
		value := os.Getenv(envVar)
		if value == "" {
			errors = append(errors, fmt.Sprintf("%s is required", envVar))
			return
		}
		duration, err := time.ParseDuration(value)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: invalid duration format: %v", envVar, err))
			return
		}
		*dst = duration
	}

	parseDuration("HTTP_APP_READ_TIMEOUT_DURATION", &cfg.Timeouts.Read)
	parseDuration("HTTP_APP_READ_HEADER_TIMEOUT_DURATION", &cfg.Timeouts.ReadHeader)
	parseDuration("HTTP_APP_WRITE_TIMEOUT_DURATION", &cfg.Timeouts.Write)
	parseDuration("HTTP_APP_IDLE_TIMEOUT_DURATION", &cfg.Timeouts.Idle)
	parseDuration("HTTP_APP_SHUTDOWN_TIMEOUT_DURATION", &cfg.Timeouts.ShutdownWait)

	if v := os.Getenv("HTTP_APP_MAX_BATCH_URLS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errors = append(errors, fmt.Sprintf("HTTP_APP_MAX_BATCH_URLS must be a positive integer, got %q", v))
		} else {
			cfg.MaxBatchURLs = n
		}
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return cfg, nil
}

// crawlBudget is the longest a full /crawl batch can take when every fetch
// runs into the fetch timeout.
func crawlBudget(batch, concurrency int, fetchTimeout time.Duration) time.Duration {
	if concurrency <= 0 {
		concurrency = 1
	}
	rounds := (batch + concurrency - 1) / concurrency
	return time.Duration(rounds) * fetchTimeout
}
