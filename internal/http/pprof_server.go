package http

import (
	"net/http"
	"net/http/pprof"
	"time"

	log "github.com/sirupsen/logrus"
)

type PprofServer struct {
	managedServer
}

// NewPprofServer registers the profiling handlers on a private mux so they are
// never exposed on the api listener.
func NewPprofServer(host string, timeout time.Duration, log *log.Logger) *PprofServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &PprofServer{managedServer{
		name: `pprof`,
		server: &http.Server{
			Addr:              host,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		timeout: timeout,
		log:     log,
	}}
}
