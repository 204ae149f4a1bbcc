package config

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// TransportConfig TCP 传输配置
type TransportConfig struct {
	// ListenAddrs 监听地址（host:port）
	ListenAddrs []string `json:"listen_addrs"`

	// DialTimeout 拨号超时
	DialTimeout Duration `json:"dial_timeout"`

	// KeepAlivePeriod TCP KeepAlive 周期，0 关闭
	KeepAlivePeriod Duration `json:"keep_alive_period"`

	// AcceptRate 每秒接受的入站连接数，0 不限制
	AcceptRate float64 `json:"accept_rate"`

	// AcceptBurst 入站连接突发上限
	AcceptBurst int `json:"accept_burst"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		ListenAddrs:     []string{"127.0.0.1:4001"},
		DialTimeout:     Duration(10 * time.Second),
		KeepAlivePeriod: Duration(15 * time.Second),
		AcceptRate:      100,
		AcceptBurst:     50,
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	for _, addr := range c.ListenAddrs {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", addr, err)
		}
	}
	if c.DialTimeout <= 0 {
		return errors.New("dial_timeout must be positive")
	}
	if c.KeepAlivePeriod < 0 {
		return errors.New("keep_alive_period must not be negative")
	}
	if c.AcceptRate < 0 {
		return errors.New("accept_rate must not be negative")
	}
	if c.AcceptRate > 0 && c.AcceptBurst <= 0 {
		return errors.New("accept_burst must be positive when accept_rate is set")
	}
	return nil
}
