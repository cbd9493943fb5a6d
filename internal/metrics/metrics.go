// Package metrics holds the Prometheus instruments for the portfolio server.
// All methods are safe on a nil *Metrics so callers may run without metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatewayConnected  prometheus.Gauge
	gatewayMessages   *prometheus.CounterVec
	gatewayReconnects prometheus.Counter
	heartbeatsSent    prometheus.Counter
	presenceUpdates   prometheus.Counter
	githubFetches     *prometheus.CounterVec
	publicRepos       prometheus.Gauge
	contactSubmits    *prometheus.CounterVec
	visitsRecorded    prometheus.Counter
	visitsDropped     prometheus.Counter
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatewayConnected: f.NewGauge(prometheus.GaugeOpts{
			Name: "krexdll_gateway_connected",
			Help: "1 while the presence gateway connection is open",
		}),
		gatewayMessages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "krexdll_gateway_messages_total",
			Help: "Gateway frames received, by op code",
		}, []string{"op"}),
		gatewayReconnects: f.NewCounter(prometheus.CounterOpts{
			Name: "krexdll_gateway_reconnects_total",
			Help: "Times the gateway connection was re-dialed",
		}),
		heartbeatsSent: f.NewCounter(prometheus.CounterOpts{
			Name: "krexdll_gateway_heartbeats_total",
			Help: "Heartbeats sent to the gateway",
		}),
		presenceUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "krexdll_presence_updates_total",
			Help: "Presence payloads accepted for the configured user",
		}),
		githubFetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "krexdll_github_fetches_total",
			Help: "GitHub repo count fetches, by outcome",
		}, []string{"outcome"}),
		publicRepos: f.NewGauge(prometheus.GaugeOpts{
			Name: "krexdll_github_public_repos",
			Help: "Last public repo count served",
		}),
		contactSubmits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "krexdll_contact_submissions_total",
			Help: "Contact form submissions, by outcome",
		}, []string{"outcome"}),
		visitsRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "krexdll_visits_recorded_total",
			Help: "Page visits written to the visitor store",
		}),
		visitsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "krexdll_visits_dropped_total",
			Help: "Page visits dropped because the write queue was full",
		}),
	}
}

func (m *Metrics) GatewayConnected(up bool) {
	if m == nil {
		return
	}
	if up {
		m.gatewayConnected.Set(1)
	} else {
		m.gatewayConnected.Set(0)
	}
}

func (m *Metrics) GatewayMessage(op int) {
	if m == nil {
		return
	}
	m.gatewayMessages.WithLabelValues(strconv.Itoa(op)).Inc()
}

func (m *Metrics) GatewayReconnect() {
	if m == nil {
		return
	}
	m.gatewayReconnects.Inc()
}

func (m *Metrics) HeartbeatSent() {
	if m == nil {
		return
	}
	m.heartbeatsSent.Inc()
}

func (m *Metrics) PresenceUpdate() {
	if m == nil {
		return
	}
	m.presenceUpdates.Inc()
}

// GitHubFetch records a fetch outcome and, on success, the count.
func (m *Metrics) GitHubFetch(count int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.githubFetches.WithLabelValues("error").Inc()
		return
	}
	m.githubFetches.WithLabelValues("ok").Inc()
	m.publicRepos.Set(float64(count))
}

func (m *Metrics) ContactSubmit(outcome string) {
	if m == nil {
		return
	}
	m.contactSubmits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) VisitRecorded() {
	if m == nil {
		return
	}
	m.visitsRecorded.Inc()
}

func (m *Metrics) VisitDropped() {
	if m == nil {
		return
	}
	m.visitsDropped.Inc()
}

// Serve exposes /metrics from g on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
