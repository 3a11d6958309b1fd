package http

import (
	"net/http"
	"time"

	"seo_crawler/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type MetricsServer struct {
	managedServer
}

// NewMetricsServer serves the crawl and http collectors on /metrics.
func NewMetricsServer(host string, timeout time.Duration, log *log.Logger) *MetricsServer {
	reg := metrics.MetricsRegister()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &MetricsServer{managedServer{
		name: `metrics`,
		server: &http.Server{
			Addr:              host,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		timeout: timeout,
		log:     log,
	}}
}
