package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 协商角色
const (
	RoleResponder = "responder"
	RoleInitiator = "initiator"
)

// 协商结果
const (
	ResultSuccess = "success"
	ResultNA      = "na"
	ResultError   = "error"
	ResultEmpty   = "empty"

	// ResultRejected 入站连接被限流拒绝
	ResultRejected = "rejected"
)

// 流量方向
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Metrics 协商相关的 Prometheus 收集器
type Metrics struct {
	negotiations       *prometheus.CounterVec
	negotiationSeconds *prometheus.HistogramVec
	handshakes         *prometheus.CounterVec
	listings           prometheus.Counter
	streamBytes        *prometheus.CounterVec
	connections        *prometheus.CounterVec
	activeStreams      prometheus.Gauge
}

// New 创建收集器并注册到 reg
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		negotiations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "negotiations_total",
			Help:      "Protocol negotiations by role and result.",
		}, []string{"role", "result"}),
		negotiationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "negotiation_duration_seconds",
			Help:      "Time spent negotiating a protocol.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"role"}),
		handshakes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_total",
			Help:      "Deferred handshakes by result.",
		}, []string{"result"}),
		listings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_total",
			Help:      "Protocol listings served.",
		}),
		streamBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_bytes_total",
			Help:      "Bytes carried by negotiated streams.",
		}, []string{"protocol", "direction"}),
		connections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connections by direction and result.",
		}, []string{"direction", "result"}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_streams",
			Help:      "Negotiated streams currently open.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.negotiations, m.negotiationSeconds, m.handshakes, m.listings,
		m.streamBytes, m.connections, m.activeStreams,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler 返回 /metrics HTTP 处理器
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveNegotiation 记录一次协商
func (m *Metrics) ObserveNegotiation(role, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.negotiations.WithLabelValues(role, result).Inc()
	m.negotiationSeconds.WithLabelValues(role).Observe(d.Seconds())
}

// ObserveHandshake 记录一次延迟握手
func (m *Metrics) ObserveHandshake(result string) {
	if m == nil {
		return
	}
	m.handshakes.WithLabelValues(result).Inc()
}

// ObserveListing 记录一次 ls 响应
func (m *Metrics) ObserveListing() {
	if m == nil {
		return
	}
	m.listings.Inc()
}

// ObserveConnection 记录一次连接
func (m *Metrics) ObserveConnection(direction, result string) {
	if m == nil {
		return
	}
	m.connections.WithLabelValues(direction, result).Inc()
}

// LogStreamBytes 记录已协商流的字节数
func (m *Metrics) LogStreamBytes(protocol, direction string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.streamBytes.WithLabelValues(protocol, direction).Add(float64(n))
}

// StreamOpened 活跃流加一
func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.activeStreams.Inc()
}

// StreamClosed 活跃流减一
func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.activeStreams.Dec()
}
