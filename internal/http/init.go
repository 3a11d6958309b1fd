package http

import (
	"context"
	"os/signal"
	"syscall"

	"seo_crawler/internal/application/config"
	"seo_crawler/internal/http/handlers"
	"seo_crawler/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type server interface {
	Start() error
	Stop() error
}

// Init runs the api, metrics and pprof servers until SIGINT or SIGTERM, or
// until one of them fails, then shuts all of them down.
func Init(ctx context.Context, log *log.Logger, appCfg *config.AppConfig, crawler handlers.Crawler, ranked handlers.RankedURLs) error {
	if err := appCfg.ValidateServer(); err != nil {
		return err
	}
	cfg, err := NewHTTPServerConfig()
	if err != nil {
		return errors.Wrap(err, `failed to load http server config`)
	}

	if budget := crawlBudget(cfg.MaxBatchURLs, appCfg.Crawl.Concurrency, appCfg.Crawl.FetchTimeout); budget > cfg.Timeouts.Write {
		log.WithField(`max_batch_urls`, cfg.MaxBatchURLs).
			WithField(`crawl_budget`, budget.String()).
			WithField(`write_timeout`, cfg.Timeouts.Write.String()).
			Warn(`write timeout is shorter than a full crawl batch may take`)
	}

	router := NewRouter(log, cfg.MaxBatchURLs, crawler, ranked)
	servers := []server{
		NewHttpServer(cfg, router.httpRouter, log),
		NewMetricsServer(appCfg.MetricsHost, cfg.Timeouts.ShutdownWait, log),
		NewPprofServer(appCfg.PprofHost, cfg.Timeouts.ShutdownWait, log),
	}

	return run(ctx, log, servers)
}

func run(ctx context.Context, log *log.Logger, servers []server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(s.Start)
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info(`shutdown requested`)
		var stopErr error
		for _, s := range servers {
			if err := s.Stop(); err != nil {
				log.WithError(err).Error(`server shutdown failed`)
				stopErr = err
			}
		}
		return stopErr
	})

	return g.Wait()
}
