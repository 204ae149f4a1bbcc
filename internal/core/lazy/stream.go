package lazy

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dep2p/go-multistream/internal/core/codec"
	"github.com/dep2p/go-multistream/internal/core/handshake"
	"github.com/dep2p/go-multistream/internal/core/protocol"
	"github.com/dep2p/go-multistream/internal/util/ioctx"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

// ErrDeadlineNotSupported 底层流不支持截止时间
var ErrDeadlineNotSupported = errors.New("lazy: deadline not supported")

// Stream 延迟协商流
type Stream struct {
	rwc      io.ReadWriteCloser
	protocol string
	coord    *handshake.Coordinator
}

var (
	_ io.ReadWriteCloser = (*Stream)(nil)
	_ pkgif.Flusher      = (*Stream)(nil)
	_ pkgif.Deadliner    = (*Stream)(nil)
)

// NewSelect 创建发起方延迟流
//
// proto 为空或为保留标识时返回错误，见 protocol.ValidateProposal。
func NewSelect(rwc io.ReadWriteCloser, proto string, opts ...handshake.Option) (*Stream, error) {
	if err := protocol.ValidateProposal(proto); err != nil {
		return nil, err
	}
	return newStream(rwc, proto, []string{protocolids.Multistream, proto}, opts), nil
}

// New 创建只协商 proto 的延迟流
func New(rwc io.ReadWriteCloser, proto string, opts ...handshake.Option) *Stream {
	return newStream(rwc, proto, []string{proto}, opts)
}

func newStream(rwc io.ReadWriteCloser, proto string, tokens []string, opts []handshake.Option) *Stream {
	return &Stream{
		rwc:      rwc,
		protocol: proto,
		coord:    handshake.New(rwc, tokens, opts...),
	}
}

// Protocol 返回期望协商的协议
func (s *Stream) Protocol() string {
	return s.protocol
}

// Handshaked 握手是否已结束
func (s *Stream) Handshaked() bool {
	return s.coord.Complete()
}

// Err 返回握手失败原因
func (s *Stream) Err() error {
	return s.coord.Err()
}

// Read 读取数据，首次调用时完成握手
func (s *Stream) Read(p []byte) (int, error) {
	return s.ReadContext(context.Background(), p)
}

// ReadContext 带 context 的 Read
func (s *Stream) ReadContext(ctx context.Context, p []byte) (int, error) {
	if err := s.coord.EnsureComplete(ctx, handshake.Incoming); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	return ioctx.DoRead(ctx, s.rwc, func() (int, error) {
		return s.rwc.Read(p)
	})
}

// Write 写入数据，首次调用时完成握手
func (s *Stream) Write(p []byte) (int, error) {
	return s.WriteContext(context.Background(), p)
}

// WriteContext 带 context 的 Write
func (s *Stream) WriteContext(ctx context.Context, p []byte) (int, error) {
	if err := s.coord.EnsureComplete(ctx, handshake.Outgoing); err != nil {
		return 0, err
	}
	return ioctx.DoWrite(ctx, s.rwc, func() (int, error) {
		return s.rwc.Write(p)
	})
}

// Flush 刷新底层流
func (s *Stream) Flush() error {
	return codec.Flush(s.rwc)
}

// Close 关闭底层流
func (s *Stream) Close() error {
	return s.rwc.Close()
}

// SetDeadline 设置底层流的截止时间
func (s *Stream) SetDeadline(t time.Time) error {
	d, ok := s.rwc.(pkgif.Deadliner)
	if !ok {
		return ErrDeadlineNotSupported
	}
	return d.SetDeadline(t)
}
