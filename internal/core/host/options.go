package host

import (
	"errors"

	"github.com/dep2p/go-multistream/internal/core/metrics"
	"github.com/dep2p/go-multistream/internal/core/protocol"
	"github.com/dep2p/go-multistream/internal/core/transport/tcp"
	"github.com/dep2p/go-multistream/internal/core/upgrader"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// Option Host 构造选项类型
type Option func(*Host) error

// WithTransport 设置 TCP 传输
func WithTransport(t *tcp.Transport) Option {
	return func(h *Host) error {
		h.transport = t
		return nil
	}
}

// WithUpgrader 设置连接升级器（必需）
func WithUpgrader(u *upgrader.Upgrader) Option {
	return func(h *Host) error {
		if u == nil {
			return errors.New("upgrader is nil")
		}
		h.upgrader = u
		return nil
	}
}

// WithNegotiator 设置入站协议协商器
func WithNegotiator(n *protocol.Negotiator) Option {
	return func(h *Host) error {
		h.negotiator = n
		return nil
	}
}

// WithSelector 设置出站协议选择器
func WithSelector(s *protocol.Selector) Option {
	return func(h *Host) error {
		h.selector = s
		return nil
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Host) error {
		h.metrics = m
		return nil
	}
}

// WithEventBus 设置事件总线，连接与协商事件发布到总线
func WithEventBus(bus pkgif.EventBus) Option {
	return func(h *Host) error {
		h.eventBus = bus
		return nil
	}
}

// WithConfig 设置配置
func WithConfig(cfg *Config) Option {
	return func(h *Host) error {
		if cfg == nil {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		h.config = cfg
		return nil
	}
}
