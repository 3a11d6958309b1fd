package main

import (
	"context"
	"os"
	"time"

	"seo_crawler/internal/adaptors"
	"seo_crawler/internal/application/cli"
	"seo_crawler/internal/application/config"
	"seo_crawler/internal/http"
	"seo_crawler/internal/service"

	log "github.com/sirupsen/logrus"
)

func main() {
	logInstance := log.New()
	cfg, err := config.NewAppConfig()
	if err != nil {
		logInstance.WithError(err).Fatal(`Failed to load config`)
		return
	}

	//log level
	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logInstance.WithError(err).Fatal(`Failed to parse log level`)
		return
	}

	logInstance.SetFormatter(&log.JSONFormatter{
		TimestampFormat:   time.RFC3339,
		DisableHTMLEscape: true,
		DisableTimestamp:  false,
	})

	logInstance.SetLevel(logLevel)
	if cfg.DebugMode {
		logInstance.SetLevel(log.DebugLevel)
		logInstance.SetReportCaller(true)
	}

	opts, err := cli.ParseFlags(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		logInstance.WithError(err).Fatal(`Invalid arguments`)
		return
	}

	// Requests are bounded by their own timeouts; the crawl itself is never cancelled.
	ctx := context.WithoutCancel(context.Background())

	webClient := adaptors.NewWebClient(cfg.Crawl.FetchTimeout, cfg.Crawl.MaxBodyBytes, logInstance)
	crawler := service.NewCrawler(logInstance, webClient, service.NewExtractor(logInstance), cfg.Crawl.Concurrency)
	serp := adaptors.NewSerpClient(cfg.Serp.APIKey, cfg.Serp.Database, cfg.Crawl.FetchTimeout, logInstance)

	if opts.Serve {
		if err := http.Init(ctx, logInstance, cfg, crawler, serp); err != nil {
			logInstance.WithError(err).Fatal(`Server stopped with error`)
		}
		return
	}

	summary, err := cli.Run(ctx, logInstance, crawler, cli.Source(opts, serp), opts)
	if err != nil {
		logInstance.WithError(err).WithFields(log.Fields{
			`succeeded`: summary.Succeeded,
			`failed`:    summary.Failed,
		}).Fatal(`Crawl aborted`)
		return
	}

	logInstance.WithFields(log.Fields{
		`succeeded`: summary.Succeeded,
		`failed`:    summary.Failed,
		`output`:    opts.Output,
	}).Info(`Crawl complete`)
}
