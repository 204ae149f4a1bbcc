package tcp

import "errors"

var (
	// ErrTransportClosed 传输已关闭
	ErrTransportClosed = errors.New("tcp: transport closed")

	// ErrNotTCP 底层不是 TCP 连接
	ErrNotTCP = errors.New("tcp: not a tcp connection")
)
