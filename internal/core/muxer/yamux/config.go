// Package yamux 提供基于 hashicorp/yamux 的多路复用实现
//
// 协议 ID 为 /yamux/hashicorp/1.0.0，与 /yamux/1.0.0 在升级阶段一起
// 参与协商。hashicorp 实现没有真正的 RST：Reset 与 Close 相同。
package yamux

import (
	"time"

	"github.com/hashicorp/yamux"
)

// Config hashicorp yamux 配置
type Config struct {
	MaxStreamWindowSize uint32        // 最大流窗口大小
	KeepAliveInterval   time.Duration // 心跳间隔，0 关闭
	AcceptBacklog       int           // 等待 Accept 的流上限
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxStreamWindowSize: 16 * 1024 * 1024,
		KeepAliveInterval:   30 * time.Second,
		AcceptBacklog:       256,
	}
}

// toYamux 转换为 yamux.Config
func (c Config) toYamux() *yamux.Config {
	yc := &yamux.Config{
		AcceptBacklog:          256,
		EnableKeepAlive:        c.KeepAliveInterval > 0,
		KeepAliveInterval:      30 * time.Second,
		ConnectionWriteTimeout: 10 * time.Second,
		MaxStreamWindowSize:    256 * 1024,
		StreamOpenTimeout:      75 * time.Second,
		StreamCloseTimeout:     5 * time.Minute,
		Logger:                 yamuxLogger{},
	}

	if c.MaxStreamWindowSize > 0 {
		yc.MaxStreamWindowSize = c.MaxStreamWindowSize
	}
	if c.KeepAliveInterval > 0 {
		yc.KeepAliveInterval = c.KeepAliveInterval
	}
	if c.AcceptBacklog > 0 {
		yc.AcceptBacklog = c.AcceptBacklog
	}
	return yc
}
