package yamux

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/yamux"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// Stream 封装 yamux.Stream
type Stream struct {
	stream *yamux.Stream
	closed atomic.Bool
}

var _ pkgif.MuxedStream = (*Stream)(nil)

// Read 从流中读取数据
func (s *Stream) Read(p []byte) (int, error) {
	return s.stream.Read(p)
}

// Write 向流写入数据
func (s *Stream) Write(p []byte) (int, error) {
	return s.stream.Write(p)
}

// Close 关闭流
//
// hashicorp yamux 的 Close 是半关闭：发送 FIN 后仍可读到对端剩余数据。
func (s *Stream) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.stream.Close()
}

// CloseWrite 关闭写端，与 Close 相同
func (s *Stream) CloseWrite() error {
	return s.Close()
}

// Reset 重置流
//
// yamux 使用 Close 来重置流，不是真正的 RST。
func (s *Stream) Reset() error {
	return s.Close()
}

// ID 返回流 ID
func (s *Stream) ID() uint32 {
	return s.stream.StreamID()
}

// SetDeadline 设置读写超时
func (s *Stream) SetDeadline(t time.Time) error {
	return s.stream.SetDeadline(t)
}

// SetReadDeadline 设置读超时
func (s *Stream) SetReadDeadline(t time.Time) error {
	return s.stream.SetReadDeadline(t)
}

// SetWriteDeadline 设置写超时
func (s *Stream) SetWriteDeadline(t time.Time) error {
	return s.stream.SetWriteDeadline(t)
}
