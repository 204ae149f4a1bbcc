package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-multistream/internal/core/handshake"
	"github.com/dep2p/go-multistream/internal/core/lazy"
	"github.com/dep2p/go-multistream/internal/core/metrics"
	"github.com/dep2p/go-multistream/internal/core/protocol"
	"github.com/dep2p/go-multistream/internal/core/protocol/system/ping"
	"github.com/dep2p/go-multistream/internal/core/transport/tcp"
	"github.com/dep2p/go-multistream/internal/core/upgrader"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("core/host")

// logIDLen 日志中连接 ID 的显示长度
const logIDLen = 8

var (
	// ErrHostClosed Host 已关闭
	ErrHostClosed = errors.New("host is closed")

	// ErrNoProtocols 未提供候选协议
	ErrNoProtocols = errors.New("no protocols to select")
)

// Host 协商主机实现
// 采用门面（Facade）模式，聚合传输、升级与协商组件
type Host struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	// 核心组件
	transport  *tcp.Transport
	upgrader   *upgrader.Upgrader
	negotiator *protocol.Negotiator
	selector   *protocol.Selector
	metrics    *metrics.Metrics
	eventBus   pkgif.EventBus
	events     *emitters

	// 配置
	config  *Config
	limiter *rate.Limiter

	// 监听器与连接
	mu        sync.RWMutex
	listeners []*tcp.Listener
	conns     map[string]*connEntry

	// 生命周期
	started  atomic.Bool
	closed   atomic.Bool
	refCount sync.WaitGroup
}

// connEntry 已升级连接的记录
type connEntry struct {
	id   string
	addr string
	dir  string
	conn *upgrader.Conn
}

// Stream 已协商的出站流
type Stream struct {
	pkgif.MuxedStream

	protocol string
}

// Protocol 返回协商出的协议
func (s *Stream) Protocol() string {
	return s.protocol
}

// New 创建新的 Host
func New(opts ...Option) (*Host, error) {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Host{
		ctx:       ctx,
		ctxCancel: cancel,
		config:    DefaultConfig(),
		conns:     make(map[string]*connEntry),
	}

	// 应用选项
	for _, opt := range opts {
		if err := opt(h); err != nil {
			cancel()
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// 验证必需依赖
	if h.upgrader == nil {
		cancel()
		return nil, errors.New("upgrader is required")
	}

	if h.transport == nil {
		h.transport = tcp.NewTransport(tcp.DefaultConfig())
	}
	if h.negotiator == nil {
		h.negotiator = protocol.NewNegotiator(protocol.WithMetrics(h.metrics))
	}
	if h.selector == nil {
		h.selector = &protocol.Selector{Metrics: h.metrics}
	}
	events, err := newEmitters(h.eventBus)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create emitters: %w", err)
	}
	h.events = events

	limit := rate.Inf
	if h.config.AcceptRate > 0 {
		limit = rate.Limit(h.config.AcceptRate)
	}
	h.limiter = rate.NewLimiter(limit, h.config.AcceptBurst)

	return h, nil
}

// Negotiator 返回入站协商器
func (h *Host) Negotiator() *protocol.Negotiator {
	return h.negotiator
}

// Addrs 返回监听地址
func (h *Host) Addrs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	addrs := make([]string, 0, len(h.listeners))
	for _, l := range h.listeners {
		addrs = append(addrs, l.Addr().String())
	}
	return addrs
}

// ConnCount 返回当前已升级连接数
func (h *Host) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Protocols 返回已注册的协议
func (h *Host) Protocols() []string {
	return h.negotiator.Protocols()
}

// SetHandler 注册协议处理器
//
// 同一协议重复注册时替换旧处理器。
func (h *Host) SetHandler(handler pkgif.Handler) error {
	if err := h.negotiator.AddHandler(handler); err != nil {
		return err
	}
	logger.Debug("注册协议处理器", "protocol", handler.Protocol())
	return nil
}

// SetStreamHandler 以回调注册协议处理器
func (h *Host) SetStreamHandler(protocolID string, fn protocol.HandlerFunc) error {
	return h.SetHandler(protocol.NewHandler(protocolID, fn))
}

// RemoveStreamHandler 移除协议处理器
func (h *Host) RemoveStreamHandler(protocolID string) {
	h.negotiator.RemoveHandler(protocolID)
	logger.Debug("移除协议处理器", "protocol", protocolID)
}

// Listen 监听地址并开始接受入站连接
func (h *Host) Listen(addrs ...string) error {
	if h.closed.Load() {
		return ErrHostClosed
	}

	for _, addr := range addrs {
		l, err := h.transport.Listen(addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}

		h.mu.Lock()
		if h.closed.Load() {
			h.mu.Unlock()
			l.Close()
			return ErrHostClosed
		}
		h.listeners = append(h.listeners, l)
		h.refCount.Add(1)
		h.mu.Unlock()

		logger.Info("开始监听", "addr", l.Addr().String())
		go h.acceptLoop(l)
	}
	return nil
}

// Connect 连接到远端并完成升级
//
// 已存在到同一地址的出站连接时直接复用。
func (h *Host) Connect(ctx context.Context, addr string) (*upgrader.Conn, error) {
	e, err := h.connect(ctx, addr)
	if err != nil {
		return nil, err
	}
	return e.conn, nil
}

func (h *Host) connect(ctx context.Context, addr string) (*connEntry, error) {
	if h.closed.Load() {
		return nil, ErrHostClosed
	}
	if e := h.outbound(addr); e != nil {
		return e, nil
	}

	raw, err := h.transport.Dial(ctx, addr)
	if err != nil {
		h.metrics.ObserveConnection(metrics.DirectionOut, metrics.ResultError)
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	uc, err := h.upgrader.Upgrade(ctx, raw, false)
	if err != nil {
		h.metrics.ObserveConnection(metrics.DirectionOut, metrics.ResultError)
		return nil, fmt.Errorf("failed to upgrade %s: %w", addr, err)
	}
	h.metrics.ObserveConnection(metrics.DirectionOut, metrics.ResultSuccess)

	e := h.track(uc, addr, metrics.DirectionOut)
	if e == nil {
		uc.Close()
		return nil, ErrHostClosed
	}
	return e, nil
}

// NewStream 打开流并立即选择协议
//
// 按偏好顺序尝试 protocols，返回第一个被接受的协议。
func (h *Host) NewStream(ctx context.Context, addr string, protocols ...string) (*Stream, error) {
	if len(protocols) == 0 {
		return nil, ErrNoProtocols
	}

	connID, s, err := h.openStream(ctx, addr)
	if err != nil {
		return nil, err
	}

	nctx, cancel := context.WithTimeout(ctx, h.config.NegotiationTimeout)
	defer cancel()

	proto, err := h.selector.SelectOneOf(nctx, protocols, s)
	if err != nil {
		s.Reset()
		return nil, fmt.Errorf("protocol negotiation failed: %w", err)
	}
	h.events.emit(h.events.negotiated, EvtProtocolNegotiated{
		ConnID:    connID,
		Protocol:  proto,
		Direction: metrics.DirectionOut,
	})

	return &Stream{MuxedStream: h.metrics.WrapStream(proto, s), protocol: proto}, nil
}

// NewLazyStream 打开流并延迟协商
//
// 握手在首次读写时完成，请求与首批数据可以一起发出。
func (h *Host) NewLazyStream(ctx context.Context, addr string, protocolID string) (*lazy.Stream, error) {
	_, s, err := h.openStream(ctx, addr)
	if err != nil {
		return nil, err
	}

	ls, err := lazy.NewSelect(h.metrics.WrapStream(protocolID, s), protocolID,
		handshake.WithTimeout(h.config.HandshakeTimeout),
		handshake.WithMetrics(h.metrics),
	)
	if err != nil {
		s.Reset()
		return nil, err
	}
	return ls, nil
}

// ListProtocols 查询远端支持的协议
func (h *Host) ListProtocols(ctx context.Context, addr string) ([]string, error) {
	_, s, err := h.openStream(ctx, addr)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	nctx, cancel := context.WithTimeout(ctx, h.config.NegotiationTimeout)
	defer cancel()

	protos, err := h.selector.ListProtocols(nctx, s)
	if err != nil {
		s.Reset()
		return nil, err
	}
	return protos, nil
}

// Ping 通过系统 ping 协议测量往返时间
func (h *Host) Ping(ctx context.Context, addr string) (time.Duration, error) {
	s, err := h.NewStream(ctx, addr, ping.ProtocolID)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	rtt, err := ping.Ping(ctx, s)
	if err != nil {
		s.Reset()
		return 0, err
	}
	return rtt, nil
}

// Close 关闭 Host
func (h *Host) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}

	logger.Info("正在关闭 Host")
	h.ctxCancel()

	h.mu.Lock()
	listeners := h.listeners
	h.listeners = nil
	conns := make([]*connEntry, 0, len(h.conns))
	for _, e := range h.conns {
		conns = append(conns, e)
	}
	h.mu.Unlock()

	var err error
	for _, l := range listeners {
		err = multierr.Append(err, l.Close())
	}
	for _, e := range conns {
		err = multierr.Append(err, e.conn.Close())
	}
	err = multierr.Append(err, h.transport.Close())

	// 等待所有连接与流的 goroutine 退出
	h.refCount.Wait()
	h.events.close()

	logger.Info("Host 已关闭")
	return err
}

// Closed 检查 Host 是否已关闭
func (h *Host) Closed() bool {
	return h.closed.Load()
}

// openStream 在到 addr 的连接上打开流，返回连接 ID 与流
func (h *Host) openStream(ctx context.Context, addr string) (string, pkgif.MuxedStream, error) {
	e, err := h.connect(ctx, addr)
	if err != nil {
		return "", nil, err
	}
	s, err := e.conn.OpenStream(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open stream: %w", err)
	}
	return e.id, s, nil
}

func (h *Host) outbound(addr string) *connEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, e := range h.conns {
		if e.dir == metrics.DirectionOut && e.addr == addr && !e.conn.IsClosed() {
			return e
		}
	}
	return nil
}

// track 记录连接并开始服务其入站流
//
// Host 已关闭时返回 nil。
func (h *Host) track(uc *upgrader.Conn, addr, dir string) *connEntry {
	e := &connEntry{
		id:   uuid.NewString(),
		addr: addr,
		dir:  dir,
		conn: uc,
	}

	h.mu.Lock()
	if h.closed.Load() {
		h.mu.Unlock()
		return nil
	}
	h.conns[e.id] = e
	h.refCount.Add(1)
	h.mu.Unlock()

	logger.Debug("连接已建立", "connID", log.TruncateID(e.id, logIDLen), "addr", addr, "direction", dir, "muxer", uc.Muxer())
	h.events.emit(h.events.opened, EvtConnectionOpened{
		ConnID:    e.id,
		Addr:      addr,
		Direction: dir,
		Muxer:     uc.Muxer(),
	})

	go h.serveConn(e)
	return e
}

func (h *Host) untrack(e *connEntry) {
	h.mu.Lock()
	delete(h.conns, e.id)
	h.mu.Unlock()

	h.events.emit(h.events.closed, EvtConnectionClosed{
		ConnID:    e.id,
		Addr:      e.addr,
		Direction: e.dir,
	})
}
