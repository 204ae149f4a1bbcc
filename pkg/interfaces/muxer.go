package interfaces

import (
	"context"
	"io"
	"net"
	"time"
)

// StreamMuxer 流多路复用器
//
// 升级阶段以 ID 作为协议名参与协商，选中后由 NewConn 建立会话。
type StreamMuxer interface {
	ID() string
	NewConn(conn net.Conn, isServer bool) (MuxedConn, error)
}

// MuxedConn 多路复用会话
type MuxedConn interface {
	io.Closer

	OpenStream(ctx context.Context) (MuxedStream, error)
	AcceptStream() (MuxedStream, error)
	IsClosed() bool
}

// MuxedStream 会话上的单条流
//
// Close 为正常关闭；Reset 中止流，对端读写立即失败。
// CloseWrite 只关闭写方向，对端随后读到 EOF。
type MuxedStream interface {
	io.ReadWriteCloser
	Deadliner

	CloseWrite() error
	Reset() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}
