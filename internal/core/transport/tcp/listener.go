package tcp

import (
	"net"
	"sync/atomic"
)

// Listener TCP 监听器
type Listener struct {
	listener *net.TCPListener
	t        *Transport
	closed   atomic.Bool
}

// Accept 接受连接
func (l *Listener) Accept() (net.Conn, error) {
	c, err := l.listener.AcceptTCP()
	if err != nil {
		return nil, err
	}
	return l.t.track(c), nil
}

// Addr 返回实际监听地址
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Close 关闭监听器
func (l *Listener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	l.t.removeListener(l)
	return l.listener.Close()
}

// IsClosed 检查监听器是否已关闭
func (l *Listener) IsClosed() bool {
	return l.closed.Load()
}
