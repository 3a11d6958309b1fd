package http

import (
	"seo_crawler/internal/http/handlers"
	"seo_crawler/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type Router struct {
	httpRouter *chi.Mux
	log        *log.Logger
}

func NewRouter(log *log.Logger, maxBatchURLs int, crawler handlers.Crawler, ranked handlers.RankedURLs) *Router {
	r := &Router{
		httpRouter: chi.NewRouter(),
		log:        log,
	}
	r.initRoutes(maxBatchURLs, crawler, ranked)
	return r
}

func (r *Router) initRoutes(maxBatchURLs int, crawler handlers.Crawler, ranked handlers.RankedURLs) {
	r.httpRouter.Use(middleware.MetricsMiddleware)
	r.httpRouter.Use(middleware.RequestIDLoggerMiddleware(r.log))
	// Routes
	r.httpRouter.Get("/ready", handlers.NewReadyHandler().Handle)
	r.httpRouter.Post("/audit", handlers.NewAuditHandler(crawler, r.log).Handle)
	r.httpRouter.Post("/crawl", handlers.NewCrawlHandler(crawler, ranked, maxBatchURLs, r.log).Handle)
}
