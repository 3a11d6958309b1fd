package http

import (
	"context"
	"net/http"
	"time"

	"seo_crawler/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
)

// managedServer wraps an *http.Server with the start/stop logging shared by
// the api, metrics and pprof listeners.
type managedServer struct {
	name    string
	server  *http.Server
	timeout time.Duration
	log     *log.Logger
}

// Start blocks until the listener fails or Stop is called. A clean shutdown
// returns nil.
func (s *managedServer) Start() error {
	s.log.WithField(`addr`, s.server.Addr).Infof(`%s server starting`, s.name)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, s.name+` server failed`)
	}
	return nil
}

func (s *managedServer) Stop() error {
	if s.server == nil {
		return errors.New(`server is not initialized`)
	}
	s.log.Infof(`shutting down %s server...`, s.name)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, `failed to shutdown `+s.name+` server`)
	}

	s.log.Infof(`%s server exiting`, s.name)
	return nil
}

type HTTPServer struct {
	managedServer
}

func NewHttpServer(config *HTTPServerConfig, handler http.Handler, log *log.Logger) *HTTPServer {
	return &HTTPServer{managedServer{
		name: `api`,
		server: &http.Server{
			Addr:              config.Host,
			Handler:           handler,
			ReadTimeout:       config.Timeouts.Read,
			ReadHeaderTimeout: config.Timeouts.ReadHeader,
			WriteTimeout:      config.Timeouts.Write,
			IdleTimeout:       config.Timeouts.Idle,
		},
		timeout: config.Timeouts.ShutdownWait,
		log:     log,
	}}
}
