package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dep2p/go-multistream/internal/core/codec"
	"github.com/dep2p/go-multistream/internal/core/metrics"
	"github.com/dep2p/go-multistream/internal/util/ioctx"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

var logger = log.Logger("core/protocol")

// Result 协商结果
//
// 零值表示没有协商出协议（对端关闭或发送空令牌）。
type Result struct {
	Protocol string
	Handler  pkgif.Handler
}

// Ok 是否协商出协议
func (r Result) Ok() bool {
	return r.Handler != nil
}

// NegotiatorOption 响应方选项
type NegotiatorOption func(*Negotiator)

// WithMetrics 设置指标收集器
func WithMetrics(m *metrics.Metrics) NegotiatorOption {
	return func(n *Negotiator) {
		n.metrics = m
	}
}

// WithRegistry 使用已有的注册表
func WithRegistry(r *Registry) NegotiatorOption {
	return func(n *Negotiator) {
		if r != nil {
			n.registry = r
		}
	}
}

// Negotiator multistream-select 响应方
//
// 可在多个流上并发使用。
type Negotiator struct {
	registry *Registry
	metrics  *metrics.Metrics
}

// NewNegotiator 创建响应方
func NewNegotiator(opts ...NegotiatorOption) *Negotiator {
	n := &Negotiator{registry: NewRegistry()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Registry 返回底层注册表
func (n *Negotiator) Registry() *Registry {
	return n.registry
}

// ============================================================================
//                              处理器管理
// ============================================================================

// AddHandler 注册处理器，替换同协议的已有处理器
func (n *Negotiator) AddHandler(h pkgif.Handler) error {
	return n.registry.Add(h)
}

// AddHandlerFunc 用回调注册处理器
func (n *Negotiator) AddHandlerFunc(proto string, fn HandlerFunc) error {
	return n.registry.Add(NewHandler(proto, fn))
}

// RemoveHandler 按协议注销处理器，协议未注册时不做任何事
func (n *Negotiator) RemoveHandler(proto string) {
	n.registry.Remove(proto)
}

// RemoveHandlerInstance 按处理器身份注销
func (n *Negotiator) RemoveHandlerInstance(h pkgif.Handler) {
	n.registry.RemoveInstance(h)
}

// Protocols 返回已注册协议（注册顺序）
func (n *Negotiator) Protocols() []string {
	return n.registry.Protocols()
}

// ============================================================================
//                              协商
// ============================================================================

// Negotiate 在流上执行响应方协商
func (n *Negotiator) Negotiate(rwc io.ReadWriteCloser) (Result, error) {
	return n.NegotiateContext(context.Background(), rwc)
}

// NegotiateContext 在流上执行响应方协商
//
// 对端标识不符时关闭流并返回 ErrIncorrectVersion。
// 对端在请求协议前关闭或发送空令牌时返回零值 Result。
func (n *Negotiator) NegotiateContext(ctx context.Context, rwc io.ReadWriteCloser) (Result, error) {
	start := time.Now()
	res, err := ioctx.Do(ctx, rwc, func() (Result, error) {
		return n.negotiate(rwc)
	})

	elapsed := time.Since(start)
	switch {
	case err != nil:
		n.metrics.ObserveNegotiation(metrics.RoleResponder, metrics.ResultError, elapsed)
		logger.Debug("协议协商失败", "error", err)
	case !res.Ok():
		n.metrics.ObserveNegotiation(metrics.RoleResponder, metrics.ResultEmpty, elapsed)
	default:
		n.metrics.ObserveNegotiation(metrics.RoleResponder, metrics.ResultSuccess, elapsed)
		logger.Debug("协议协商成功", "protocol", res.Protocol, "elapsed", elapsed)
	}
	return res, err
}

func (n *Negotiator) negotiate(rwc io.ReadWriteCloser) (Result, error) {
	if err := codec.WriteTokens(rwc, protocolids.Multistream); err != nil {
		return Result{}, fmt.Errorf("protocol: write header: %w", err)
	}

	tok, err := codec.ReadToken(rwc)
	if errors.Is(err, io.EOF) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("protocol: read header: %w", err)
	}
	if tok != protocolids.Multistream {
		_ = rwc.Close()
		return Result{}, fmt.Errorf("%w: got %q", ErrIncorrectVersion, tok)
	}

	for {
		tok, err := codec.ReadToken(rwc)
		if errors.Is(err, io.EOF) {
			return Result{}, nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("protocol: read request: %w", err)
		}

		switch tok {
		case "":
			return Result{}, nil
		case protocolids.Ls:
			if err := codec.WriteListing(rwc, n.registry.Protocols()); err != nil {
				return Result{}, fmt.Errorf("protocol: write listing: %w", err)
			}
			n.metrics.ObserveListing()
			continue
		}

		h, ok := n.registry.Lookup(tok)
		if !ok {
			logger.Debug("拒绝未注册协议", "protocol", tok)
			if err := codec.WriteTokens(rwc, protocolids.NA); err != nil {
				return Result{}, fmt.Errorf("protocol: write na: %w", err)
			}
			continue
		}

		if err := codec.WriteTokens(rwc, tok); err != nil {
			return Result{}, fmt.Errorf("protocol: write echo: %w", err)
		}
		return Result{Protocol: tok, Handler: h}, nil
	}
}

// Handle 协商并分派处理器
func (n *Negotiator) Handle(rwc io.ReadWriteCloser) (bool, error) {
	return n.HandleContext(context.Background(), rwc)
}

// HandleContext 协商并分派处理器
//
// 没有协商出协议时返回 false, nil。
func (n *Negotiator) HandleContext(ctx context.Context, rwc io.ReadWriteCloser) (bool, error) {
	res, err := n.NegotiateContext(ctx, rwc)
	if err != nil {
		return false, err
	}
	if !res.Ok() {
		return false, nil
	}
	return res.Handler.Handle(ctx, res.Protocol, rwc), nil
}

// Ls 写出已注册协议列表
func (n *Negotiator) Ls(w io.Writer) error {
	return n.LsContext(context.Background(), w)
}

// LsContext 写出已注册协议列表
func (n *Negotiator) LsContext(ctx context.Context, w io.Writer) error {
	return ioctx.Run(ctx, w, func() error {
		return codec.WriteListing(w, n.registry.Protocols())
	})
}
