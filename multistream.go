package multistream

import (
	"context"
	"io"
	"time"

	"github.com/dep2p/go-multistream/internal/core/handshake"
	"github.com/dep2p/go-multistream/internal/core/lazy"
	"github.com/dep2p/go-multistream/internal/core/protocol"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

// ════════════════════════════════════════════════════════════════════════════
//                              常量
// ════════════════════════════════════════════════════════════════════════════

const (
	// ProtocolID multistream-select 协议标识
	ProtocolID = protocolids.Multistream

	// Ls 列表请求
	Ls = protocolids.Ls

	// NA 拒绝回应
	NA = protocolids.NA
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// Handler 协议处理器
type Handler = pkgif.Handler

// HandlerFunc 处理器回调，返回 false 表示处理失败
type HandlerFunc = protocol.HandlerFunc

// Negotiator 响应方
type Negotiator = protocol.Negotiator

// Result 协商结果，Protocol 为空表示对端未选定协议即关闭
type Result = protocol.Result

// LazyStream 延迟协商流
type LazyStream = lazy.Stream

// ════════════════════════════════════════════════════════════════════════════
//                              响应方
// ════════════════════════════════════════════════════════════════════════════

// NewNegotiator 创建空的响应方
func NewNegotiator() *Negotiator {
	return protocol.NewNegotiator()
}

// NewHandler 用回调创建处理器
func NewHandler(proto string, fn HandlerFunc) Handler {
	return protocol.NewHandler(proto, fn)
}

// ════════════════════════════════════════════════════════════════════════════
//                              发起方
// ════════════════════════════════════════════════════════════════════════════

// SelectProtoOrFail 提议单个协议
func SelectProtoOrFail(proto string, rw io.ReadWriter) error {
	return protocol.SelectProtoOrFail(proto, rw)
}

// SelectProtoOrFailContext 可取消的 SelectProtoOrFail
func SelectProtoOrFailContext(ctx context.Context, proto string, rw io.ReadWriter) error {
	return protocol.SelectProtoOrFailContext(ctx, proto, rw)
}

// SelectOneOf 按偏好顺序提议，返回第一个被接受的协议
func SelectOneOf(protos []string, rw io.ReadWriter) (string, error) {
	return protocol.SelectOneOf(protos, rw)
}

// SelectOneOfContext 可取消的 SelectOneOf
func SelectOneOfContext(ctx context.Context, protos []string, rw io.ReadWriter) (string, error) {
	return protocol.SelectOneOfContext(ctx, protos, rw)
}

// ListProtocols 查询对端已注册的协议
func ListProtocols(rw io.ReadWriter) ([]string, error) {
	return protocol.ListProtocols(rw)
}

// ListProtocolsContext 可取消的 ListProtocols
func ListProtocolsContext(ctx context.Context, rw io.ReadWriter) ([]string, error) {
	return protocol.ListProtocolsContext(ctx, rw)
}

// ════════════════════════════════════════════════════════════════════════════
//                              延迟流
// ════════════════════════════════════════════════════════════════════════════

// LazyOption 延迟握手选项
type LazyOption = handshake.Option

// WithHandshakeTimeout 设置延迟握手超时，默认 3s
func WithHandshakeTimeout(d time.Duration) LazyOption {
	return handshake.WithTimeout(d)
}

// NewMSSelect 创建包含 multistream 头部的延迟流
func NewMSSelect(rwc io.ReadWriteCloser, proto string, opts ...LazyOption) (*LazyStream, error) {
	return lazy.NewSelect(rwc, proto, opts...)
}

// NewMultistream 创建只协商 proto 的延迟流
//
// 用于 multistream 头部已经交换过的流。
func NewMultistream(rwc io.ReadWriteCloser, proto string, opts ...LazyOption) *LazyStream {
	return lazy.New(rwc, proto, opts...)
}
