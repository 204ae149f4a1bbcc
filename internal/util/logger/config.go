// Package logger 负责安装进程级日志 handler
//
// 组件通过 pkg/lib/log 声明 logger，本包决定输出格式与各组件级别。
//
// 环境变量:
//   - MSS_LOG_LEVEL: 组件=级别,组件=级别,默认级别
//     示例: core/protocol=debug,core/host=warn,info
//   - MSS_LOG_FORMAT: text 或 json
//   - MSS_LOG_ADD_SOURCE: true 或 false
package logger

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"strings"

	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var envLogger = log.Logger("util/logger")

// LogFormat 日志输出格式
type LogFormat int

const (
	// FormatText 文本格式（默认）
	FormatText LogFormat = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// Config 日志配置
type Config struct {
	// DefaultLevel 默认日志级别
	DefaultLevel slog.Level

	// ComponentLevels 各组件的日志级别
	ComponentLevels map[string]slog.Level

	// Format 输出格式
	Format LogFormat

	// AddSource 是否添加源码位置
	AddSource bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		DefaultLevel:    slog.LevelInfo,
		ComponentLevels: make(map[string]slog.Level),
		Format:          FormatText,
	}
}

// LevelFor 获取指定组件的日志级别
func (c *Config) LevelFor(component string) slog.Level {
	if level, ok := c.ComponentLevels[component]; ok {
		return level
	}
	return c.DefaultLevel
}

// ParseConfig 从级别字符串与格式字符串构造配置
//
// 级别字符串为空时使用 info。
func ParseConfig(levels, format string) (*Config, error) {
	cfg := DefaultConfig()
	if err := parseLevelConfig(cfg, levels); err != nil {
		return nil, err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	cfg.Format = f
	return cfg, nil
}

// ConfigFromEnv 从环境变量解析配置
//
// 返回 base 的副本，base 本身不被修改。取值非法的变量被忽略并记录警告。
func ConfigFromEnv(base *Config) *Config {
	var cfg *Config
	if base == nil {
		cfg = DefaultConfig()
	} else {
		cfg = base.Clone()
	}

	if levelStr := os.Getenv("MSS_LOG_LEVEL"); levelStr != "" {
		// 解析到副本上，失败时不留下部分结果
		parsed := cfg.Clone()
		if err := parseLevelConfig(parsed, levelStr); err != nil {
			envLogger.Warn("忽略非法的 MSS_LOG_LEVEL", "value", levelStr, "error", err)
		} else {
			cfg = parsed
		}
	}
	if formatStr := os.Getenv("MSS_LOG_FORMAT"); formatStr != "" {
		if f, err := ParseFormat(formatStr); err != nil {
			envLogger.Warn("忽略非法的 MSS_LOG_FORMAT", "value", formatStr, "error", err)
		} else {
			cfg.Format = f
		}
	}
	if addSourceStr := os.Getenv("MSS_LOG_ADD_SOURCE"); addSourceStr != "" {
		cfg.AddSource = addSourceStr != "false" && addSourceStr != "0"
	}
	return cfg
}

// Clone 深拷贝配置
func (c *Config) Clone() *Config {
	cp := *c
	cp.ComponentLevels = make(map[string]slog.Level, len(c.ComponentLevels))
	maps.Copy(cp.ComponentLevels, c.ComponentLevels)
	return &cp
}

// ParseFormat 解析日志格式名称
func ParseFormat(name string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", name)
	}
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// parseLevelConfig 解析日志级别配置字符串
// 格式: component=level,component=level,defaultLevel
func parseLevelConfig(cfg *Config, levelStr string) error {
	for _, part := range strings.Split(levelStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		component, levelName, scoped := strings.Cut(part, "=")
		if !scoped {
			level, err := ParseLevel(part)
			if err != nil {
				return err
			}
			cfg.DefaultLevel = level
			continue
		}

		level, err := ParseLevel(levelName)
		if err != nil {
			return err
		}
		cfg.ComponentLevels[strings.TrimSpace(component)] = level
	}
	return nil
}
