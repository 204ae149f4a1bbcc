package config

import (
	"errors"
	"net"
)

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Enable 是否启用 Prometheus 指标
	Enable bool `json:"enable"`

	// ListenAddr /metrics 监听地址，为空时只收集不暴露
	ListenAddr string `json:"listen_addr,omitempty"`

	// Namespace 指标命名空间
	Namespace string `json:"namespace"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enable:    false,
		Namespace: "mss",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if !c.Enable {
		return nil
	}
	if c.Namespace == "" {
		return errors.New("namespace must not be empty")
	}
	if c.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
			return err
		}
	}
	return nil
}
