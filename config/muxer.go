package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dep2p/go-multistream/pkg/protocolids"
)

// MuxerConfig 多路复用配置
type MuxerConfig struct {
	// Preferred 按偏好排列的多路复用协议，升级时依次提议
	Preferred []string `json:"preferred"`

	// MaxStreamWindowSize 单流最大窗口
	MaxStreamWindowSize uint32 `json:"max_stream_window_size"`

	// KeepAliveInterval 会话保活间隔，0 关闭保活
	KeepAliveInterval Duration `json:"keep_alive_interval"`

	// MaxIncomingStreams 最大入站流数
	MaxIncomingStreams uint32 `json:"max_incoming_streams"`
}

// DefaultMuxerConfig 返回默认多路复用配置
func DefaultMuxerConfig() MuxerConfig {
	return MuxerConfig{
		Preferred:           protocolids.MuxerProtocols(),
		MaxStreamWindowSize: 16 * 1024 * 1024,
		KeepAliveInterval:   Duration(30 * time.Second),
		MaxIncomingStreams:  1024,
	}
}

// Validate 验证多路复用配置
func (c MuxerConfig) Validate() error {
	if len(c.Preferred) == 0 {
		return errors.New("at least one muxer must be preferred")
	}
	for _, id := range c.Preferred {
		if id != protocolids.Yamux && id != protocolids.HashicorpYamux {
			return fmt.Errorf("unknown muxer %q", id)
		}
	}
	// yamux 要求窗口不小于初始窗口 256KiB
	if c.MaxStreamWindowSize < 256*1024 {
		return errors.New("max_stream_window_size must be at least 256KiB")
	}
	if c.KeepAliveInterval < 0 {
		return errors.New("keep_alive_interval must not be negative")
	}
	if c.MaxIncomingStreams == 0 {
		return errors.New("max_incoming_streams must be positive")
	}
	return nil
}
