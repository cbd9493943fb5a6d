package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.GatewayConnected(true)
	m.GatewayMessage(1)
	m.GatewayReconnect()
	m.HeartbeatSent()
	m.PresenceUpdate()
	m.GitHubFetch(3, nil)
	m.ContactSubmit("sent")
	m.VisitRecorded()
	m.VisitDropped()
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.GatewayConnected(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayConnected))
	m.GatewayConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.gatewayConnected))

	m.GatewayMessage(0)
	m.GatewayMessage(0)
	m.GatewayMessage(1)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.gatewayMessages.WithLabelValues("0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayMessages.WithLabelValues("1")))

	m.GitHubFetch(12, nil)
	m.GitHubFetch(0, errors.New("boom"))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.publicRepos))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.githubFetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.githubFetches.WithLabelValues("error")))

	m.VisitDropped()
	m.VisitDropped()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.visitsDropped))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
