package host

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/dep2p/go-multistream/internal/core/metrics"
	"github.com/dep2p/go-multistream/internal/core/transport/tcp"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

// Start 启动 Host，监听配置中的地址
func (h *Host) Start(_ context.Context) error {
	if !h.started.CompareAndSwap(false, true) {
		return errors.New("host already started")
	}

	if h.closed.Load() {
		return ErrHostClosed
	}

	logger.Info("正在启动 Host", "protocols", h.Protocols())

	if err := h.Listen(h.config.ListenAddrs...); err != nil {
		logger.Error("启动监听失败", "error", err)
		return err
	}

	logger.Info("Host 启动成功", "addrs", h.Addrs())
	return nil
}

// acceptLoop 接受入站连接直到监听器关闭
func (h *Host) acceptLoop(l *tcp.Listener) {
	defer h.refCount.Done()

	for {
		raw, err := l.Accept()
		if err != nil {
			if !h.closed.Load() && !errors.Is(err, net.ErrClosed) {
				logger.Warn("接受连接失败", "addr", l.Addr().String(), "error", err)
			}
			return
		}

		// 超出速率的连接直接关闭，不参与协商
		if !h.limiter.Allow() {
			logger.Debug("入站连接被限流", "remote", raw.RemoteAddr().String())
			h.metrics.ObserveConnection(metrics.DirectionIn, metrics.ResultRejected)
			raw.Close()
			continue
		}

		h.refCount.Add(1)
		go h.handleInboundConn(raw)
	}
}

// handleInboundConn 升级入站连接并开始服务
func (h *Host) handleInboundConn(raw net.Conn) {
	defer h.refCount.Done()

	remote := raw.RemoteAddr().String()
	uc, err := h.upgrader.Upgrade(h.ctx, raw, true)
	if err != nil {
		logger.Debug("入站连接升级失败", "remote", remote, "error", err)
		h.metrics.ObserveConnection(metrics.DirectionIn, metrics.ResultError)
		return
	}
	h.metrics.ObserveConnection(metrics.DirectionIn, metrics.ResultSuccess)

	if h.track(uc, remote, metrics.DirectionIn) == nil {
		uc.Close()
	}
}

// serveConn 接受连接上的入站流直到连接关闭
func (h *Host) serveConn(e *connEntry) {
	defer h.refCount.Done()
	defer h.untrack(e)

	for {
		s, err := e.conn.AcceptStream()
		if err != nil {
			logger.Debug("连接已关闭", "connID", log.TruncateID(e.id, logIDLen), "error", err)
			e.conn.Close()
			return
		}

		h.refCount.Add(1)
		go func() {
			defer h.refCount.Done()
			h.handleInboundStream(e.id, s)
		}()
	}
}

// handleInboundStream 协商入站流并分发给处理器
func (h *Host) handleInboundStream(connID string, s pkgif.MuxedStream) {
	if h.closed.Load() {
		s.Reset()
		return
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.config.NegotiationTimeout)
	res, err := h.negotiator.NegotiateContext(ctx, s)
	cancel()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			logger.Debug("协议协商失败", "connID", log.TruncateID(connID, logIDLen), "error", err)
		}
		s.Reset()
		return
	}

	// 对端未选定协议即关闭
	if !res.Ok() {
		s.Close()
		return
	}

	h.events.emit(h.events.negotiated, EvtProtocolNegotiated{
		ConnID:    connID,
		Protocol:  res.Protocol,
		Direction: metrics.DirectionIn,
	})

	stream := h.metrics.WrapStream(res.Protocol, s)
	if res.Handler == nil {
		logger.Debug("协议无处理器，关闭流", "connID", log.TruncateID(connID, logIDLen), "protocol", res.Protocol)
		stream.Close()
		return
	}

	if !res.Handler.Handle(h.ctx, res.Protocol, stream) {
		logger.Debug("处理器异常结束", "connID", log.TruncateID(connID, logIDLen), "protocol", res.Protocol)
		stream.Reset()
		return
	}
	stream.Close()
}
