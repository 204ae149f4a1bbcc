package yamux

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/yamux"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

// ErrMuxerClosed 会话已关闭
var ErrMuxerClosed = errors.New("yamux: muxer closed")

// Transport hashicorp yamux 传输
type Transport struct {
	config *yamux.Config
}

var _ pkgif.StreamMuxer = (*Transport)(nil)

// NewTransport 创建 Transport
func NewTransport(cfg Config) *Transport {
	return &Transport{config: cfg.toYamux()}
}

// NewConn 在网络连接上创建多路复用连接
func (t *Transport) NewConn(conn net.Conn, isServer bool) (pkgif.MuxedConn, error) {
	if conn == nil {
		return nil, errors.New("yamux: nil connection")
	}

	var (
		session *yamux.Session
		err     error
	)
	if isServer {
		session, err = yamux.Server(conn, t.config)
	} else {
		session, err = yamux.Client(conn, t.config)
	}
	if err != nil {
		return nil, fmt.Errorf("yamux: create session: %w", err)
	}
	return &Muxer{session: session}, nil
}

// ID 返回多路复用协议标识
func (t *Transport) ID() string {
	return protocolids.HashicorpYamux
}

// Muxer 封装 yamux.Session
type Muxer struct {
	session *yamux.Session
}

var _ pkgif.MuxedConn = (*Muxer)(nil)

// OpenStream 打开新流
//
// yamux 的 OpenStream 不支持 context，在单独的 goroutine 中等待。
func (m *Muxer) OpenStream(ctx context.Context) (pkgif.MuxedStream, error) {
	if m.IsClosed() {
		return nil, ErrMuxerClosed
	}

	type result struct {
		stream *yamux.Stream
		err    error
	}
	resultCh := make(chan result, 1)

	go func() {
		s, err := m.session.OpenStream()
		resultCh <- result{stream: s, err: err}
	}()

	select {
	case <-ctx.Done():
		// 关闭迟到的流以防泄漏
		go func() {
			if r := <-resultCh; r.stream != nil {
				_ = r.stream.Close()
			}
		}()
		return nil, ctx.Err()
	case r := <-resultCh:
		if r.err != nil {
			return nil, fmt.Errorf("yamux: open stream: %w", r.err)
		}
		return &Stream{stream: r.stream}, nil
	}
}

// AcceptStream 接受新流
func (m *Muxer) AcceptStream() (pkgif.MuxedStream, error) {
	s, err := m.session.AcceptStream()
	if err != nil {
		if errors.Is(err, yamux.ErrSessionShutdown) {
			return nil, ErrMuxerClosed
		}
		return nil, fmt.Errorf("yamux: accept stream: %w", err)
	}
	return &Stream{stream: s}, nil
}

// Close 关闭多路复用器
func (m *Muxer) Close() error {
	return m.session.Close()
}

// IsClosed 检查是否已关闭
func (m *Muxer) IsClosed() bool {
	return m.session.IsClosed()
}

// NumStreams 返回当前流数量
func (m *Muxer) NumStreams() int {
	return m.session.NumStreams()
}

// Ping 测量会话往返时延
func (m *Muxer) Ping() (time.Duration, error) {
	if m.IsClosed() {
		return 0, ErrMuxerClosed
	}
	return m.session.Ping()
}
