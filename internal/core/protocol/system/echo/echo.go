// Package echo 实现回显协议
//
// 协议 ID /mss/sys/echo/1.0.0，服务端把读到的字节原样写回，
// 直到对端关闭写方向。
package echo

import (
	"context"
	"errors"
	"io"
	"net"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

var logger = log.Logger("protocol/echo")

// ProtocolID Echo 协议 ID
const ProtocolID = protocolids.SysEcho

// Service Echo 服务
type Service struct{}

var _ pkgif.Handler = (*Service)(nil)

// NewService 创建 Echo 服务
func NewService() *Service {
	return &Service{}
}

// Protocol 返回协议 ID
func (s *Service) Protocol() string {
	return ProtocolID
}

// Handle 回显直到 EOF
func (s *Service) Handle(_ context.Context, _ string, stream io.ReadWriteCloser) bool {
	defer stream.Close()

	n, err := io.Copy(stream, stream)
	if err != nil && !errors.Is(err, net.ErrClosed) {
		logger.Debug("回显中断", "bytes", n, "error", err)
		return false
	}
	return true
}
