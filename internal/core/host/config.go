package host

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/dep2p/go-multistream/config"
)

// Config Host 配置
type Config struct {
	// 地址配置
	ListenAddrs []string // Start 时监听的地址

	// 超时配置
	NegotiationTimeout time.Duration // 单个入站/出站流的协商超时（默认 10s）
	HandshakeTimeout   time.Duration // 延迟流握手超时（默认 3s）

	// 入站限流
	AcceptRate  float64 // 每秒允许的新连接数，0 不限流
	AcceptBurst int     // 突发上限
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return ConfigFromUnified(nil)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.NegotiationTimeout <= 0 {
		return errors.New("negotiation timeout must be positive")
	}
	if c.HandshakeTimeout <= 0 {
		return errors.New("handshake timeout must be positive")
	}
	if c.AcceptRate < 0 {
		return errors.New("accept rate must not be negative")
	}
	if c.AcceptRate > 0 && c.AcceptBurst <= 0 {
		return errors.New("accept burst must be positive")
	}
	for _, addr := range c.ListenAddrs {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("invalid listen addr %q: %w", addr, err)
		}
	}
	return nil
}

// ConfigFromUnified 从统一配置创建 Host 配置
func ConfigFromUnified(cfg *config.Config) *Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Config{
		ListenAddrs:        append([]string(nil), cfg.Transport.ListenAddrs...),
		NegotiationTimeout: cfg.Negotiation.NegotiateTimeout.Duration(),
		HandshakeTimeout:   cfg.Negotiation.HandshakeTimeout.Duration(),
		AcceptRate:         cfg.Transport.AcceptRate,
		AcceptBurst:        cfg.Transport.AcceptBurst,
	}
}
