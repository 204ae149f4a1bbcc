// Package config 提供统一的配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义，
// 各自提供 DefaultXConfig() 与 Validate()。
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Negotiation.HandshakeTimeout = config.Duration(5 * time.Second)
//
//	// 从 JSON 加载
//	cfg, err := config.LoadFile("mss.json")
package config

import "fmt"

// Config 完整配置
//
//   - Negotiation: 协商与握手超时
//   - Transport: TCP 监听与拨号
//   - Muxer: 流多路复用
//   - Metrics: Prometheus 指标
//   - Log: 日志级别与格式
type Config struct {
	// Negotiation 协商配置
	Negotiation NegotiationConfig `json:"negotiation"`

	// Transport 传输层配置
	Transport TransportConfig `json:"transport"`

	// Muxer 多路复用配置
	Muxer MuxerConfig `json:"muxer"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Negotiation: DefaultNegotiationConfig(),
		Transport:   DefaultTransportConfig(),
		Muxer:       DefaultMuxerConfig(),
		Metrics:     DefaultMetricsConfig(),
		Log:         DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Negotiation.Validate(); err != nil {
		return fmt.Errorf("negotiation: %w", err)
	}
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if err := c.Muxer.Validate(); err != nil {
		return fmt.Errorf("muxer: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}
