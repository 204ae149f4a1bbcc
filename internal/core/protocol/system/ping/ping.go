package ping

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"io"
	"time"

	"github.com/dep2p/go-multistream/internal/util/ioctx"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

var logger = log.Logger("protocol/ping")

// ProtocolID Ping 协议 ID
const ProtocolID = protocolids.SysPing

const (
	// PingSize Ping 消息大小（32 字节）
	PingSize = 32

	// HandlerIdleTimeout Handler 空闲超时时间
	HandlerIdleTimeout = 60 * time.Second
)

var (
	// ErrDataMismatch Ping 回显数据不匹配
	ErrDataMismatch = errors.New("ping: echo data mismatch")
)

// Service Ping 服务
type Service struct {
	idle time.Duration
}

var _ pkgif.Handler = (*Service)(nil)

// NewService 创建 Ping 服务
func NewService() *Service {
	return &Service{idle: HandlerIdleTimeout}
}

// Protocol 返回协议 ID
func (s *Service) Protocol() string {
	return ProtocolID
}

// Handle 处理 Ping 请求（服务器端），读取数据并回显
//
// 对端正常关闭时返回 true。
func (s *Service) Handle(_ context.Context, _ string, stream io.ReadWriteCloser) bool {
	defer stream.Close()

	d, _ := stream.(pkgif.Deadliner)
	buf := make([]byte, PingSize)
	for {
		if d != nil && s.idle > 0 {
			_ = d.SetDeadline(time.Now().Add(s.idle))
		}

		if _, err := io.ReadFull(stream, buf); err != nil {
			return errors.Is(err, io.EOF)
		}
		if _, err := stream.Write(buf); err != nil {
			logger.Debug("回显 ping 失败", "error", err)
			return false
		}
	}
}

// Ping 在已协商的流上发送一次 ping，返回往返时间（RTT）
func Ping(ctx context.Context, stream io.ReadWriter) (time.Duration, error) {
	buf := make([]byte, PingSize)
	if _, err := rand.Read(buf); err != nil {
		return 0, err
	}

	return ioctx.Do(ctx, stream, func() (time.Duration, error) {
		start := time.Now()
		if _, err := stream.Write(buf); err != nil {
			return 0, err
		}

		echo := make([]byte, PingSize)
		if _, err := io.ReadFull(stream, echo); err != nil {
			return 0, err
		}
		rtt := time.Since(start)

		if !bytes.Equal(buf, echo) {
			return 0, ErrDataMismatch
		}
		return rtt, nil
	})
}
