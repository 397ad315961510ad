// Package metrics holds the Prometheus counters of the accounts server and
// the HTTP endpoint exposing them.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login results.
const (
	LoginSuccess   = "success"
	LoginFailure   = "failure"
	LoginThrottled = "throttled"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	logins        *prometheus.CounterVec
	upgrades      *prometheus.CounterVec
	reviewNotes   *prometheus.CounterVec
	upgradeLosses prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "addonaccounts_login_attempts_total",
			Help: "Password login attempts by result.",
		}, []string{"result"}),
		upgrades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "addonaccounts_password_upgrades_total",
			Help: "Legacy credential records rewritten to the current format, by source algorithm.",
		}, []string{"from"}),
		reviewNotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "addonaccounts_review_notes_requests_total",
			Help: "Review notes requests by result.",
		}, []string{"result"}),
		upgradeLosses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "addonaccounts_password_upgrade_conflicts_total",
			Help: "Upgrades skipped because the stored record changed concurrently.",
		}),
	}
	m.registry.MustRegister(m.logins, m.upgrades, m.reviewNotes, m.upgradeLosses)
	return m
}

func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) PasswordUpgraded(from string) {
	if m == nil {
		return
	}
	m.upgrades.WithLabelValues(from).Inc()
}

func (m *Metrics) PasswordUpgradeConflict() {
	if m == nil {
		return
	}
	m.upgradeLosses.Inc()
}

func (m *Metrics) ReviewNotesRequest(result string) {
	if m == nil {
		return
	}
	m.reviewNotes.WithLabelValues(result).Inc()
}

// Gatherer exposes the registry the counters live in.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server serves /metrics on its own address.
type Server struct {
	addr string
	srv  *http.Server
}

func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &Server{
		addr: addr,
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
	}
}

// Run serves until ctx is done, then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		return err
	}
}
