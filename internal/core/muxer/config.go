package muxer

import (
	"time"

	"github.com/dep2p/go-multistream/config"
)

// Config 多路复用器配置
type Config struct {
	MaxStreamWindowSize uint32        // 最大流窗口大小
	KeepAliveInterval   time.Duration // 心跳间隔，0 关闭
	MaxIncomingStreams  uint32        // 最大入站流数
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	c := config.DefaultMuxerConfig()
	return Config{
		MaxStreamWindowSize: c.MaxStreamWindowSize,
		KeepAliveInterval:   c.KeepAliveInterval.Duration(),
		MaxIncomingStreams:  c.MaxIncomingStreams,
	}
}

// ConfigFromUnified 从统一配置创建 Muxer 配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		MaxStreamWindowSize: cfg.Muxer.MaxStreamWindowSize,
		KeepAliveInterval:   cfg.Muxer.KeepAliveInterval.Duration(),
		MaxIncomingStreams:  cfg.Muxer.MaxIncomingStreams,
	}
}
