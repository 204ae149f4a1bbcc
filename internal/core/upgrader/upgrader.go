package upgrader

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/dep2p/go-multistream/internal/core/protocol"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("core/upgrader")

// Upgrader 连接升级器
type Upgrader struct {
	streamMuxers     []pkgif.StreamMuxer
	protocols        []string
	negotiateTimeout time.Duration

	negotiator *protocol.Negotiator
	selector   *protocol.Selector
}

// New 创建连接升级器
func New(cfg Config) (*Upgrader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.NegotiateTimeout == 0 {
		cfg.NegotiateTimeout = DefaultNegotiateTimeout
	}

	n, err := newMuxerNegotiator(cfg.StreamMuxers, protocol.WithMetrics(cfg.Metrics))
	if err != nil {
		return nil, err
	}

	protos := make([]string, len(cfg.StreamMuxers))
	for i, sm := range cfg.StreamMuxers {
		protos[i] = sm.ID()
	}

	return &Upgrader{
		streamMuxers:     cfg.StreamMuxers,
		protocols:        protos,
		negotiateTimeout: cfg.NegotiateTimeout,
		negotiator:       n,
		selector:         &protocol.Selector{Metrics: cfg.Metrics},
	}, nil
}

// Protocols 返回按偏好排列的多路复用协议
func (u *Upgrader) Protocols() []string {
	return append([]string(nil), u.protocols...)
}

// Conn 升级后的连接
type Conn struct {
	pkgif.MuxedConn

	raw   net.Conn
	muxer string
}

// Muxer 返回协商出的多路复用协议
func (c *Conn) Muxer() string {
	return c.muxer
}

// RemoteAddr 返回远端地址
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// LocalAddr 返回本地地址
func (c *Conn) LocalAddr() net.Addr {
	return c.raw.LocalAddr()
}

// Upgrade 升级连接
//
// 失败时关闭 conn。
func (u *Upgrader) Upgrade(ctx context.Context, conn net.Conn, isServer bool) (*Conn, error) {
	logger.Debug("协商多路复用器", "isServer", isServer, "remote", conn.RemoteAddr().String())

	sm, err := u.negotiateMuxer(ctx, conn, isServer)
	if err != nil {
		logger.Warn("多路复用器协商失败", "error", err)
		conn.Close()
		return nil, fmt.Errorf("muxer negotiation: %w", err)
	}

	mc, err := sm.NewConn(conn, isServer)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrMuxerSetupFailed, err)
	}

	logger.Debug("连接升级完成", "muxer", sm.ID())
	return &Conn{MuxedConn: mc, raw: conn, muxer: sm.ID()}, nil
}
