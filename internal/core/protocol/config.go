package protocol

import (
	"errors"
	"time"

	"github.com/dep2p/go-multistream/internal/core/handshake"
)

// Config 协议模块配置
type Config struct {
	// NegotiationTimeout 入站流协商超时
	NegotiationTimeout time.Duration

	// HandshakeTimeout 延迟握手超时
	HandshakeTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		NegotiationTimeout: 10 * time.Second,
		HandshakeTimeout:   handshake.DefaultTimeout,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.NegotiationTimeout <= 0 {
		return errors.New("negotiation timeout must be positive")
	}
	if c.HandshakeTimeout <= 0 {
		return errors.New("handshake timeout must be positive")
	}
	return nil
}

// WithNegotiationTimeout 设置协商超时
func (c Config) WithNegotiationTimeout(timeout time.Duration) Config {
	c.NegotiationTimeout = timeout
	return c
}

// WithHandshakeTimeout 设置延迟握手超时
func (c Config) WithHandshakeTimeout(timeout time.Duration) Config {
	c.HandshakeTimeout = timeout
	return c
}
