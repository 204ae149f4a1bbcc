package handshake

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-multistream/internal/core/metrics"
)

// DefaultTimeout 默认握手超时
const DefaultTimeout = 3 * time.Second

type options struct {
	timeout time.Duration
	clock   clock.Clock
	metrics *metrics.Metrics
}

func defaultOptions() options {
	return options{
		timeout: DefaultTimeout,
		clock:   clock.New(),
	}
}

// Option 握手选项
type Option func(*options)

// WithTimeout 设置握手超时，非正值保持默认
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithClock 设置时钟（测试中使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
