// Package endpoints serves a running experiment's stats and health over HTTP.
package endpoints

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/schedsim/common/stats"
)

type StatsServer struct {
	Addr  string
	Stats stats.StatsReceiver
	mux   *http.ServeMux
}

func NewStatsServer(addr string, stat stats.StatsReceiver) *StatsServer {
	s := &StatsServer{Addr: addr, Stats: stat, mux: http.NewServeMux()}
	s.mux.HandleFunc("/", helpHandler)
	s.mux.HandleFunc("/health", healthHandler)
	s.mux.HandleFunc("/admin/metrics.json", s.statsHandler)
	return s
}

func (s *StatsServer) Handler() http.Handler {
	return s.mux
}

// Serve blocks until the listener fails.
func (s *StatsServer) Serve() error {
	log.Infof("Serving stats on %s", s.Addr)
	return http.ListenAndServe(s.Addr, s.mux)
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Common paths: '/health', '/admin/metrics.json'", http.StatusNotImplemented)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok")
}

// statsHandler renders the registry. Rendering resets histograms, so each
// scrape reports what happened since the previous one.
func (s *StatsServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	pretty := r.URL.Query().Get("pretty") == "true"
	if _, err := w.Write(s.Stats.Render(pretty)); err != nil {
		log.Warnf("Writing stats response: %v", err)
	}
}
