package protocol

import (
	"context"
	"io"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// HandlerFunc 回调形式的协议处理函数
//
// 返回 true 表示接管了流。
type HandlerFunc func(ctx context.Context, protocol string, stream io.ReadWriteCloser) bool

// funcHandler 由回调实现的处理器
type funcHandler struct {
	protocol string
	fn       HandlerFunc
}

var _ pkgif.Handler = (*funcHandler)(nil)

// NewHandler 用回调创建处理器
//
// fn 为 nil 时处理器不接管任何流。
func NewHandler(protocol string, fn HandlerFunc) pkgif.Handler {
	return &funcHandler{protocol: protocol, fn: fn}
}

// Protocol 返回处理器负责的协议
func (h *funcHandler) Protocol() string {
	return h.protocol
}

// Handle 调用回调
func (h *funcHandler) Handle(ctx context.Context, protocol string, stream io.ReadWriteCloser) bool {
	if h.fn == nil {
		return false
	}
	return h.fn(ctx, protocol, stream)
}

// String 便于日志输出
func (h *funcHandler) String() string {
	return "FuncHandler(" + h.protocol + ")"
}
