package metrics

import (
	"sync"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// meteredStream 统计已协商流的字节数
type meteredStream struct {
	pkgif.MuxedStream

	m         *Metrics
	protocol  string
	closeOnce sync.Once
}

// WrapStream 包装流以统计字节数与活跃流
//
// m 为 nil 时原样返回。
func (m *Metrics) WrapStream(protocol string, s pkgif.MuxedStream) pkgif.MuxedStream {
	if m == nil {
		return s
	}
	m.StreamOpened()
	return &meteredStream{MuxedStream: s, m: m, protocol: protocol}
}

// Read 从流中读取数据
func (s *meteredStream) Read(p []byte) (int, error) {
	n, err := s.MuxedStream.Read(p)
	s.m.LogStreamBytes(s.protocol, DirectionIn, n)
	return n, err
}

// Write 向流中写入数据
func (s *meteredStream) Write(p []byte) (int, error) {
	n, err := s.MuxedStream.Write(p)
	s.m.LogStreamBytes(s.protocol, DirectionOut, n)
	return n, err
}

// Close 关闭流
func (s *meteredStream) Close() error {
	s.release()
	return s.MuxedStream.Close()
}

// Reset 重置流
func (s *meteredStream) Reset() error {
	s.release()
	return s.MuxedStream.Reset()
}

func (s *meteredStream) release() {
	s.closeOnce.Do(s.m.StreamClosed)
}
