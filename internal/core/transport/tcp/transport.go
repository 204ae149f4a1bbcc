package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-multistream/config"
)

// Config TCP 传输配置
type Config struct {
	DialTimeout time.Duration // 拨号超时
	KeepAlive   time.Duration // TCP KeepAlive 周期，0 关闭
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建 TCP 配置
func ConfigFromUnified(cfg *config.Config) Config {
	tc := config.DefaultTransportConfig()
	if cfg != nil {
		tc = cfg.Transport
	}
	return Config{
		DialTimeout: tc.DialTimeout.Duration(),
		KeepAlive:   tc.KeepAlivePeriod.Duration(),
	}
}

// Transport TCP 传输层实现
type Transport struct {
	config Config

	mu        sync.Mutex
	listeners map[*Listener]struct{}
	conns     map[*Conn]struct{}

	closed atomic.Bool
}

// NewTransport 创建 TCP 传输层
func NewTransport(cfg Config) *Transport {
	return &Transport{
		config:    cfg,
		listeners: make(map[*Listener]struct{}),
		conns:     make(map[*Conn]struct{}),
	}
}

// Dial 建立出站连接
func (t *Transport) Dial(ctx context.Context, addr string) (net.Conn, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}

	dialer := &net.Dialer{Timeout: t.config.DialTimeout, KeepAlive: -1}
	c, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp: dial %s: %w", addr, err)
	}

	tc, ok := c.(*net.TCPConn)
	if !ok {
		_ = c.Close()
		return nil, ErrNotTCP
	}
	return t.track(tc), nil
}

// Listen 监听入站连接
func (t *Transport) Listen(addr string) (*Listener, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}

	var lc net.ListenConfig
	l, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp: listen %s: %w", addr, err)
	}
	tl, ok := l.(*net.TCPListener)
	if !ok {
		_ = l.Close()
		return nil, ErrNotTCP
	}

	ln := &Listener{listener: tl, t: t}
	t.mu.Lock()
	t.listeners[ln] = struct{}{}
	t.mu.Unlock()
	return ln, nil
}

// Close 关闭传输层及其所有监听器与连接
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	t.mu.Lock()
	listeners := make([]*Listener, 0, len(t.listeners))
	for l := range t.listeners {
		listeners = append(listeners, l)
	}
	conns := make([]*Conn, 0, len(t.conns))
	for c := range t.conns {
		conns = append(conns, c)
	}
	t.mu.Unlock()

	var err error
	for _, l := range listeners {
		err = multierr.Append(err, l.Close())
	}
	for _, c := range conns {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// ConnCount 返回连接数量
func (t *Transport) ConnCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}

// ListenerCount 返回监听器数量
func (t *Transport) ListenerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

func (t *Transport) track(tc *net.TCPConn) *Conn {
	var c *Conn
	c = newConn(tc, t.config.KeepAlive, func() {
		t.mu.Lock()
		delete(t.conns, c)
		t.mu.Unlock()
	})
	t.mu.Lock()
	t.conns[c] = struct{}{}
	t.mu.Unlock()
	return c
}

func (t *Transport) removeListener(l *Listener) {
	t.mu.Lock()
	delete(t.listeners, l)
	t.mu.Unlock()
}
