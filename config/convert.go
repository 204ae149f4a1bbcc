package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "negotiation": {"handshake_timeout": "5s"},
//	  "transport": {"listen_addrs": ["0.0.0.0:4001"]},
//	  "metrics": {"enable": true, "listen_addr": "127.0.0.1:9100"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置并验证
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToJSON 序列化配置
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// ApplyEnv 用 MSS_ 前缀的环境变量覆盖配置
//
//   - MSS_LISTEN_ADDR
//   - MSS_METRICS_ADDR（同时启用指标）
//   - MSS_LOG_LEVEL / MSS_LOG_FORMAT
//   - MSS_HANDSHAKE_TIMEOUT
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if v := os.Getenv("MSS_LISTEN_ADDR"); v != "" {
		cfg.Transport.ListenAddrs = []string{v}
	}
	if v := os.Getenv("MSS_METRICS_ADDR"); v != "" {
		cfg.Metrics.Enable = true
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("MSS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MSS_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MSS_HANDSHAKE_TIMEOUT"); v != "" {
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("MSS_HANDSHAKE_TIMEOUT: %w", err)
		}
		cfg.Negotiation.HandshakeTimeout = d
	}
	return nil
}

