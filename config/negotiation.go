package config

import (
	"errors"
	"time"
)

// NegotiationConfig 协商配置
type NegotiationConfig struct {
	// HandshakeTimeout 延迟握手超时
	HandshakeTimeout Duration `json:"handshake_timeout"`

	// NegotiateTimeout 入站流协商超时（含等待对端请求协议的时间）
	NegotiateTimeout Duration `json:"negotiate_timeout"`
}

// DefaultNegotiationConfig 返回默认协商配置
func DefaultNegotiationConfig() NegotiationConfig {
	return NegotiationConfig{
		HandshakeTimeout: Duration(3 * time.Second),
		NegotiateTimeout: Duration(10 * time.Second),
	}
}

// Validate 验证协商配置
func (c NegotiationConfig) Validate() error {
	if c.HandshakeTimeout <= 0 {
		return errors.New("handshake_timeout must be positive")
	}
	if c.NegotiateTimeout <= 0 {
		return errors.New("negotiate_timeout must be positive")
	}
	return nil
}
