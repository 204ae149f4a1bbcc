package config

import "fmt"

// LogConfig 日志配置
type LogConfig struct {
	// Level 级别，支持按组件配置: "core/protocol=debug,info"
	Level string `json:"level"`

	// Format 输出格式: text 或 json
	Format string `json:"format"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch c.Format {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
}
