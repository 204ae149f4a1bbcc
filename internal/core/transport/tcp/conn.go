package tcp

import (
	"net"
	"sync"
	"time"
)

// Conn TCP 连接
//
// 关闭时从所属 Transport 的连接表中移除。
type Conn struct {
	*net.TCPConn

	opened  time.Time
	once    sync.Once
	onClose func()
}

// newConn 设置 TCP 选项并包装连接
func newConn(c *net.TCPConn, keepAlive time.Duration, onClose func()) *Conn {
	_ = c.SetNoDelay(true)
	if keepAlive > 0 {
		_ = c.SetKeepAlive(true)
		_ = c.SetKeepAlivePeriod(keepAlive)
	}
	return &Conn{TCPConn: c, opened: time.Now(), onClose: onClose}
}

// Close 关闭连接
func (c *Conn) Close() error {
	c.once.Do(func() {
		if c.onClose != nil {
			c.onClose()
		}
	})
	return c.TCPConn.Close()
}

// Opened 返回建立时间
func (c *Conn) Opened() time.Time {
	return c.opened
}

// RawConn 返回底层 TCP 连接
func (c *Conn) RawConn() *net.TCPConn {
	return c.TCPConn
}
