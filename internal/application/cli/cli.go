package cli

import (
	"context"
	"flag"
	"io"

	"seo_crawler/internal/adaptors"
	"seo_crawler/internal/application/config"
	domain "seo_crawler/internal/domain/adaptors"
	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/pkg/errors"
	"seo_crawler/internal/service"

	log "github.com/sirupsen/logrus"
)

const defaultKeywordLimit = 10

// Options are the command line flags.
type Options struct {
	Input   string
	Keyword string
	Limit   int
	Output  string
	Records string
	Serve   bool
}

// ParseFlags reads args (without the program name). Output and Records
// default to the configured paths.
func ParseFlags(args []string, cfg *config.AppConfig, stderr io.Writer) (Options, error) {
	var opts Options
	fs := flag.NewFlagSet(`seo_crawler`, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Input, `input`, ``, `file with one candidate url per line`)
	fs.StringVar(&opts.Keyword, `keyword`, ``, `crawl the pages ranking for this keyword instead of a url file`)
	fs.IntVar(&opts.Limit, `limit`, defaultKeywordLimit, `number of ranked results to crawl with -keyword`)
	fs.StringVar(&opts.Output, `output`, cfg.Crawl.OutputPath, `url pair output file`)
	fs.StringVar(&opts.Records, `records`, cfg.Crawl.RecordsPath, `optional json lines file with the full seo record of each page`)
	fs.BoolVar(&opts.Serve, `serve`, false, `run the http api instead of a single crawl`)

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Serve {
		return opts, nil
	}

	switch {
	case opts.Input == "" && opts.Keyword == "":
		return opts, errors.New(`one of -input or -keyword is required`)
	case opts.Input != "" && opts.Keyword != "":
		return opts, errors.New(`-input and -keyword are mutually exclusive`)
	case opts.Keyword != "" && opts.Limit <= 0:
		return opts, errors.Errorf(`-limit must be positive, got %d`, opts.Limit)
	case opts.Output == "":
		return opts, errors.New(`-output must not be empty`)
	}
	return opts, nil
}

// Source picks the url source the options ask for.
func Source(opts Options, serp *adaptors.SerpClient) domain.URLSource {
	if opts.Keyword != "" {
		return adaptors.SerpSource{Client: serp, Keyword: opts.Keyword, Limit: opts.Limit}
	}
	return adaptors.URLFile{Path: opts.Input}
}

// Run performs one crawl: it collects the candidate set, creates the output
// files and writes a row for every page that could be fetched and parsed.
// Per-url failures only show up in the summary; errors returned here come
// from the url source or the output files.
func Run(ctx context.Context, logger *log.Logger, crawler *service.Crawler, source domain.URLSource, opts Options) (models.CrawlSummary, error) {
	urls, err := source.URLs(ctx)
	if err != nil {
		return models.CrawlSummary{}, errors.Wrap(err, `failed to collect urls`)
	}
	logger.WithField(`urls`, len(urls)).Info(`candidate urls collected`)

	tsv, err := adaptors.CreateTSVFile(opts.Output)
	if err != nil {
		return models.CrawlSummary{}, err
	}
	defer closeSink(logger, tsv)

	var sink domain.Sink = tsv
	if opts.Records != "" {
		records, err := adaptors.CreateJSONLinesFile(opts.Records)
		if err != nil {
			return models.CrawlSummary{}, err
		}
		defer closeSink(logger, records)
		sink = adaptors.MultiSink{tsv, records}
	}

	return crawler.Crawl(ctx, urls, sink)
}

func closeSink(logger *log.Logger, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.WithError(err).Error(`failed to close output file`)
	}
}
