package muxer

import (
	"io"
	"net"

	"github.com/libp2p/go-yamux/v5"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

// Transport yamux 多路复用器传输
type Transport struct {
	config *yamux.Config
}

var _ pkgif.StreamMuxer = (*Transport)(nil)

// NewTransport 创建新的 Transport
func NewTransport(cfg Config) *Transport {
	yc := yamux.DefaultConfig()

	if cfg.MaxStreamWindowSize > 0 {
		yc.MaxStreamWindowSize = cfg.MaxStreamWindowSize
	}
	if cfg.MaxIncomingStreams > 0 {
		yc.MaxIncomingStreams = cfg.MaxIncomingStreams
	}
	yc.EnableKeepAlive = cfg.KeepAliveInterval > 0
	if yc.EnableKeepAlive {
		yc.KeepAliveInterval = cfg.KeepAliveInterval
	}

	// 禁用日志输出
	yc.LogOutput = io.Discard

	// 禁用读缓冲（TCP 连接已有内核缓冲）
	yc.ReadBufSize = 0

	return &Transport{config: yc}
}

// NewConn 在网络连接上创建多路复用连接
func (t *Transport) NewConn(conn net.Conn, isServer bool) (pkgif.MuxedConn, error) {
	var (
		sess *yamux.Session
		err  error
	)
	if isServer {
		sess, err = yamux.Server(conn, t.config, nil)
	} else {
		sess, err = yamux.Client(conn, t.config, nil)
	}
	if err != nil {
		return nil, err
	}
	return &session{Session: sess}, nil
}

// ID 返回多路复用协议标识
func (t *Transport) ID() string {
	return protocolids.Yamux
}

// Config 返回 yamux 配置（供测试使用）
func (t *Transport) Config() *yamux.Config {
	return t.config
}
