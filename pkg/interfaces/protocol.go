package interfaces

import (
	"context"
	"io"
)

// Handler 定义协议处理器接口
//
// 协商成功后，Negotiator 将流交给与协议匹配的处理器。
type Handler interface {
	// Protocol 返回处理器负责的协议
	Protocol() string

	// Handle 处理已协商的流
	//
	// 返回 true 表示处理器接管了该流。
	// 阻塞式调用方传入 context.Background()。
	Handle(ctx context.Context, protocol string, stream io.ReadWriteCloser) bool
}
