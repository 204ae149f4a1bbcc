package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := New("mss", reg)
	require.NoError(t, err)
	return m, reg
}

func TestMetrics_Counters(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ObserveNegotiation(RoleResponder, ResultSuccess, time.Millisecond)
	m.ObserveNegotiation(RoleResponder, ResultSuccess, time.Millisecond)
	m.ObserveNegotiation(RoleInitiator, ResultNA, time.Millisecond)
	m.ObserveHandshake("timeout")
	m.ObserveListing()
	m.ObserveConnection(DirectionIn, "rejected")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.negotiations.WithLabelValues(RoleResponder, ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.negotiations.WithLabelValues(RoleInitiator, ResultNA)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.handshakes.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.listings))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections.WithLabelValues(DirectionIn, "rejected")))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New("mss", reg)
	require.NoError(t, err)

	_, err = New("mss", reg)
	assert.Error(t, err)
}

// TestMetrics_NilSafe 测试未启用指标时的 nil 接收者
func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveNegotiation(RoleResponder, ResultError, 0)
		m.ObserveHandshake("ok")
		m.ObserveListing()
		m.ObserveConnection(DirectionOut, "accepted")
		m.LogStreamBytes("/a", DirectionIn, 10)
		m.StreamOpened()
		m.StreamClosed()
	})
	assert.Nil(t, m.WrapStream("/a", nil))
}

func TestHandler_Exposition(t *testing.T) {
	m, reg := newTestMetrics(t)
	m.ObserveListing()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "mss_listings_total 1"))
}
