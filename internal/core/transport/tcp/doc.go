// Package tcp 提供基于 TCP 的传输层实现
//
// TCP 连接不提供多路复用，拨号或接受后由 upgrader 协商多路复用协议。
//
// # 快速开始
//
//	t := tcp.NewTransport(tcp.DefaultConfig())
//	l, _ := t.Listen("127.0.0.1:0")
//	conn, _ := t.Dial(ctx, l.Addr().String())
//
// Transport 记录由它创建的监听器与连接，Close 时一并关闭。
package tcp
